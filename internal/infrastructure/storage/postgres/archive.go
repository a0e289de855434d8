package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"barkeep/internal/core/id"
	"barkeep/internal/domain/sales"
)

const billArchiveTable = "cleared_bill_archive"

// CompressionAlgo specifies the compression algorithm used for archived
// payloads.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// ArchivedBill is a stored copy of a cleared pending bill.
type ArchivedBill struct {
	ID                id.ID           `db:"id"`
	BillID            id.ID           `db:"bill_id"`
	SaleID            id.ID           `db:"sale_id"`
	SaleNumber        string          `db:"sale_number"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	ClearedAt         time.Time       `db:"cleared_at"`
}

// BillArchive keeps compressed copies of cleared bill drafts. The draft
// row itself is deleted when the bill clears; the archive preserves what
// the draft looked like at that moment for later audit.
type BillArchive struct {
	txm               *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ sales.BillArchiver = (*BillArchive)(nil)

// NewBillArchive creates the archive service.
func NewBillArchive(txm *TxManager) (*BillArchive, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &BillArchive{
		txm:               txm,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 4 * 1024,
	}, nil
}

// ArchiveClearedBill stores a copy of the draft inside the clearing
// transaction, so the archive row commits or rolls back with the sale.
func (a *BillArchive) ArchiveClearedBill(ctx context.Context, bill *sales.PendingBill, saleID id.ID, saleNumber string) error {
	payload, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("marshal bill: %w", err)
	}

	entry := ArchivedBill{
		ID:              id.New(),
		BillID:          bill.ID,
		SaleID:          saleID,
		SaleNumber:      saleNumber,
		Payload:         payload,
		CompressionAlgo: CompressionNone,
		ClearedAt:       time.Now().UTC(),
	}

	// Large drafts are stored compressed.
	if len(payload) > a.compressThreshold {
		entry.PayloadCompressed = a.encoder.EncodeAll(payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO cleared_bill_archive (
			id, bill_id, sale_id, sale_number,
			payload, payload_compressed, compression_algo, cleared_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	querier := a.txm.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		entry.ID, entry.BillID, entry.SaleID, entry.SaleNumber,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo, entry.ClearedAt)
	if err != nil {
		return translateError(err, "cleared_bill_archive")
	}
	return nil
}

// GetArchivedBill retrieves and decodes an archived draft by the sale it
// cleared into.
func (a *BillArchive) GetArchivedBill(ctx context.Context, saleID id.ID) (*sales.PendingBill, error) {
	sql := `
		SELECT id, bill_id, sale_id, sale_number,
		       payload, payload_compressed, compression_algo, cleared_at
		FROM cleared_bill_archive
		WHERE sale_id = $1
	`

	var entry ArchivedBill
	querier := a.txm.GetQuerier(ctx)
	row := querier.QueryRow(ctx, sql, saleID)
	err := row.Scan(&entry.ID, &entry.BillID, &entry.SaleID, &entry.SaleNumber,
		&entry.Payload, &entry.PayloadCompressed, &entry.CompressionAlgo, &entry.ClearedAt)
	if err != nil {
		return nil, translateError(err, "cleared_bill_archive")
	}

	payload := entry.Payload
	if entry.CompressionAlgo == CompressionZstd {
		payload, err = a.decoder.DecodeAll(entry.PayloadCompressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress bill: %w", err)
		}
	}

	var bill sales.PendingBill
	if err := json.Unmarshal(payload, &bill); err != nil {
		return nil, fmt.Errorf("unmarshal bill: %w", err)
	}
	return &bill, nil
}

// Close releases the compressor resources.
func (a *BillArchive) Close() {
	a.encoder.Close()
	a.decoder.Close()
}
