package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/couchcryptid/gdd-planner/internal/domain"
	"github.com/couchcryptid/gdd-planner/internal/planner"
)

// Runner executes one plan request.
type Runner interface {
	Run(ctx context.Context, req domain.PlanRequest) planner.Result
}

// PlanTransformer implements Transformer by running each request through the
// planner and attaching the text and CSV exports to successful plans.
type PlanTransformer struct {
	runner Runner
	logger *slog.Logger
}

// NewTransformer creates a PlanTransformer.
func NewTransformer(runner Runner, logger *slog.Logger) *PlanTransformer {
	return &PlanTransformer{
		runner: runner,
		logger: logger,
	}
}

// Transform decodes the request and plans it. Only a malformed message is an
// error; planner outcomes of every status become results.
func (t *PlanTransformer) Transform(ctx context.Context, raw domain.RawMessage) (domain.PlanResult, error) {
	req, err := domain.ParsePlanRequest(raw)
	if err != nil {
		return domain.PlanResult{}, err
	}

	res := t.runner.Run(ctx, req)
	out := domain.PlanResult{
		RequestID:    req.RequestID,
		PlanID:       uuid.NewString(),
		Status:       string(res.Status),
		Message:      res.Message,
		UnknownCrops: res.Unknown,
		Plan:         res.Plan,
		GeneratedAt:  domain.Now(),
	}
	if res.Status == planner.StatusOK && res.Plan != nil {
		out.Text = res.Plan.Text()
		out.CSV = res.Plan.CSV()
	}

	t.logger.Debug("plan request processed",
		"request_id", out.RequestID,
		"plan_id", out.PlanID,
		"status", out.Status,
	)
	return out, nil
}
