package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

func (r *eventRepo) AppendSubmissionEvent(ctx context.Context, data SubmissionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	insert := sq.Insert("submission_events").
		Columns("sequence", "timestamp", "draft_id", "astrologer", "ad_result", "ad_error", "outcome", "error_message", "latency_ms").
		Values(seqNum, r.clock().UnixMilli(), data.DraftID, data.Astrologer, data.AdResult, data.AdError, data.Outcome, data.ErrorMessage, data.LatencyMs)

	if err := r.exec(ctx, insert); err != nil {
		return fmt.Errorf("save submission event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySubmissionEvents(ctx context.Context, opts QueryOpts) ([]SubmissionEventRecord, error) {
	sel := applyQueryOpts(
		selectEvents("submission_events", "id", "sequence", "timestamp", "draft_id", "astrologer",
			"ad_result", "ad_error", "outcome", "error_message", "latency_ms"),
		opts,
	)

	rows, err := r.selectRows(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query submission events: %w", err)
	}
	defer rows.Close()

	var out []SubmissionEventRecord
	for rows.Next() {
		var rec SubmissionEventRecord
		var ts int64
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.DraftID, &rec.Astrologer,
			&rec.AdResult, &rec.AdError, &rec.Outcome, &rec.ErrorMessage, &rec.LatencyMs); err != nil {
			return nil, fmt.Errorf("scan submission event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submission events: %w", err)
	}
	return out, nil
}
