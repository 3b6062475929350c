package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mxvel/topupmart/internal/domain/model"
)

// ErrUnknownProvider indicates no adapter is registered for a provider kind.
var ErrUnknownProvider = errors.New("unknown provider")

// transientError marks a failure worth retrying: timeouts, connection
// resets, 5xx responses. Explicit vendor rejections are not transient.
type transientError struct {
	err error
}

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var t transientError
	return errors.As(err, &t)
}

// Request is the normalized create-order payload handed to an adapter.
// ProductCode is the vendor's identifier for the item, taken from the
// product catalog, not the internal product id.
type Request struct {
	OrderID     string
	ProductCode string
	GameUserID  string
	ZoneID      string
}

// Adapter fulfills top-up orders against one external vendor. CreateOrder
// never returns an error: transport and parse failures are mapped into a
// FulfillmentResult with Success false, after the adapter's own bounded
// retries are exhausted.
type Adapter interface {
	Kind() model.ProviderKind
	CreateOrder(ctx context.Context, req Request) model.FulfillmentResult
	Balance(ctx context.Context) (decimal.Decimal, error)
}

func failure(format string, args ...any) model.FulfillmentResult {
	return model.FulfillmentResult{Success: false, Message: fmt.Sprintf(format, args...), Unreachable: true}
}
