package ansible

import (
	"context"

	"github.com/imamik/rookctl/internal/config"
)

// Operations performs the provisioning behind the module.
type Operations interface {
	Deploy(ctx context.Context, cfg *config.Config) error
	Reset(ctx context.Context, cfg *config.Config) error
}

// Run dispatches args to the first requested operation, in the order
// gather_facts, deploy, reset. Successful deploys and resets report
// changed. Errors are folded into the result, never returned.
func Run(ctx context.Context, ops Operations, args *Args) *Result {
	res := NewResult()

	switch {
	case args.GatherFacts:
		res.AnsibleFacts = GatherFacts()
	case len(args.Deploy) > 0:
		res.Changed = run(ctx, res, args.Deploy, ops.Deploy)
	case len(args.Reset) > 0:
		res.Changed = run(ctx, res, args.Reset, ops.Reset)
	}
	return res
}

// GatherFacts returns the facts the module contributes, currently none.
func GatherFacts() map[string]interface{} {
	return map[string]interface{}{}
}

func run(ctx context.Context, res *Result, params map[string]interface{}, op func(context.Context, *config.Config) error) bool {
	cfg, err := configFrom(params)
	if err != nil {
		res.Fail(err)
		return false
	}
	if err := op(ctx, cfg); err != nil {
		res.Fail(err)
		return false
	}
	return true
}
