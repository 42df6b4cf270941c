package payment

import "context"

// Gateway is the remote payment provider. Every outcome, including transport
// errors and timeouts, is reported through Result; no call returns a Go error.
type Gateway interface {
	Initialize(ctx context.Context, req InitializeRequest) Result[InitializeData]
	Verify(ctx context.Context, reference string) Result[VerifyData]
}
