package maintenance

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/flashmaint/internal/console"
	"github.com/JonMunkholm/flashmaint/internal/store"
)

// UserMessage is an operator-facing description of a failure.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

var (
	msgNotFound = UserMessage{
		Message: "Record not found in the store",
		Action:  "Another editor may have removed it; rerun to refresh the snapshot",
		Code:    "STORE001",
	}
	msgPermission = UserMessage{
		Message: "The store rejected the credentials",
		Action:  "Check SUPABASE_KEY or the database role's privileges",
		Code:    "STORE002",
	}
	msgRefused = UserMessage{
		Message: "Unable to connect to the store",
		Action:  "Check SUPABASE_URL / DATABASE_URL and your network",
		Code:    "STORE003",
	}
	msgReset = UserMessage{
		Message: "Store connection was interrupted",
		Action:  "Rerun; already applied changes are kept",
		Code:    "STORE004",
	}
	msgTimeout = UserMessage{
		Message: "The store did not answer in time",
		Action:  "Rerun later or raise STORE_TIMEOUT",
		Code:    "STORE005",
	}
	msgNoTable = UserMessage{
		Message: "Flashcard table not found",
		Action:  "Check STORE_TABLE",
		Code:    "STORE006",
	}
	msgInputClosed = UserMessage{
		Message: "Input ended before a decision was made",
		Action:  "Run the tool from an interactive terminal",
		Code:    "IN001",
	}
	msgInterrupted = UserMessage{
		Message: "Run interrupted",
		Action:  "Rerun to continue; completed changes are kept",
		Code:    "RUN001",
	}
	msgUnknown = UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Check the log output for details",
		Code:    "ERR000",
	}
)

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps error text fragments to messages. Order matters.
var errorPatterns = []errorPattern{
	{pattern: "status 401", msg: msgPermission},
	{pattern: "status 403", msg: msgPermission},
	{pattern: "permission denied", msg: msgPermission},
	{pattern: "password authentication failed", msg: msgPermission},
	{pattern: "status 404", msg: msgNoTable},
	{pattern: "does not exist", msg: msgNoTable},
	{pattern: "connection refused", msg: msgRefused},
	{pattern: "no such host", msg: msgRefused},
	{pattern: "connection reset", msg: msgReset},
	{pattern: "broken pipe", msg: msgReset},
	{pattern: "timeout", msg: msgTimeout},
}

// pgCodes maps PostgreSQL SQLSTATE codes to messages.
var pgCodes = map[string]UserMessage{
	"42501": msgPermission, // insufficient_privilege
	"28P01": msgPermission, // invalid_password
	"42P01": msgNoTable,    // undefined_table
	"57014": msgTimeout,    // query_canceled
}

// MapError converts an error into an operator-facing message. A nil error
// returns the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return msgNotFound
	case errors.Is(err, console.ErrInputClosed):
		return msgInputClosed
	case errors.Is(err, context.Canceled):
		return msgInterrupted
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := pgCodes[pgErr.Code]; ok {
			return msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(text, p.pattern) {
			return p.msg
		}
	}
	return msgUnknown
}

// String formats the message for the terminal.
func (m UserMessage) String() string {
	if m.Code == "" {
		return ""
	}
	return "[" + m.Code + "] " + m.Message + ". " + m.Action + "."
}
