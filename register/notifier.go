package register

import "context"

// ReleaseNotifier mirrors a local barcode release to a remote label
// authority. Implementations are best-effort by contract: they must
// swallow and log every failure, never propagate an error to the caller,
// and never hang the caller indefinitely (an explicit bounded timeout is
// required). Local state is already committed and authoritative when a
// notifier runs; a failed notification leaves local and remote state
// diverged until out-of-band reconciliation.
type ReleaseNotifier interface {
	NotifyReleased(ctx context.Context, code string)
}
