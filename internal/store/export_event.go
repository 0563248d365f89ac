package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendExport(ctx context.Context, data ExportEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO export_events
		(sequence, timestamp, export_id, kind, file_name, pages, bytes, duration_ms, success, stage, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, now(), data.ExportID, data.Kind, data.FileName, data.Pages, data.Bytes,
		data.DurationMs, data.Success, data.Stage, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save export event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryExports(ctx context.Context, opts QueryOpts) ([]ExportEventRecord, error) {
	clause, args := opts.where()
	rows, err := r.db.QueryContext(ctx, `SELECT id, sequence, timestamp, export_id, kind, file_name,
		pages, bytes, duration_ms, success, stage, error_message FROM export_events`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query export events: %w", err)
	}
	defer rows.Close()

	var records []ExportEventRecord
	for rows.Next() {
		var (
			rec    ExportEventRecord
			ts, ms int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.ExportID, &rec.Kind, &rec.FileName,
			&rec.Pages, &rec.Bytes, &ms, &rec.Success, &rec.Stage, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan export event: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		rec.Duration = time.Duration(ms) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}
