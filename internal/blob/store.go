package blob

import "context"

// Store is the opaque receipt-storage collaborator. The engine only
// holds the returned references; upload and deletion mechanics are
// outside its correctness boundary.
type Store interface {
	// UploadReceipt stores the receipt bytes and returns an opaque
	// reference suitable for Payment.ReceiptRef.
	UploadReceipt(ctx context.Context, name string, data []byte) (string, error)

	// DeleteReceipt removes a previously uploaded receipt. Failures are
	// tolerated by callers; a dangling receipt is preferable to a failed
	// payment amendment.
	DeleteReceipt(ctx context.Context, ref string) error
}
