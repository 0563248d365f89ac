package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendGeneration(ctx context.Context, data GenerationEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO generation_events
		(sequence, timestamp, mode, summary, problem_count, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seqNum, now(), data.Mode, data.Summary, data.ProblemCount, data.Success, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save generation event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEventRecord, error) {
	clause, args := opts.where()
	rows, err := r.db.QueryContext(ctx, `SELECT id, sequence, timestamp, mode, summary, problem_count,
		success, error_message FROM generation_events`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query generation events: %w", err)
	}
	defer rows.Close()

	var records []GenerationEventRecord
	for rows.Next() {
		var (
			rec GenerationEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.Mode, &rec.Summary, &rec.ProblemCount,
			&rec.Success, &rec.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan generation event: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}
