// Package maintenance drives an interactive cleanup session over the
// flashcard deck.
//
// A session loads the whole table into a Deck, strips trailing tanwin from
// every Arabic entry, walks groups of cards that share the same Arabic text,
// and finally sends the deck in batches to a suggestion service so the
// operator can accept, edit, delete or ignore each reported problem.
//
// # Error Codes
//
// MapError turns failures into coded operator messages:
//
//	STORE001  record not found
//	STORE002  credentials or privileges rejected
//	STORE003  store unreachable
//	STORE004  connection interrupted
//	STORE005  store timeout
//	STORE006  table missing
//	IN001     terminal input closed
//	RUN001    run interrupted
//	ERR000    anything else
package maintenance
