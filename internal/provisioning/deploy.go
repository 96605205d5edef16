package provisioning

import (
	"fmt"

	"github.com/imamik/rookctl/internal/manifest"
	"github.com/imamik/rookctl/internal/patch"
	"github.com/imamik/rookctl/internal/templates"
	"github.com/imamik/rookctl/internal/topology"
)

// Deployments awaited during apply, and the class marked default.
const (
	RookNamespace       = "rook-ceph"
	OperatorDeployment  = "rook-ceph-operator"
	ToolboxDeployment   = "rook-ceph-tools"
	DefaultStorageClass = "rook-ceph-block"
)

// DeployPhases returns the deploy phases in order.
func DeployPhases() []Phase {
	return []Phase{
		NewValidationPhase(),
		&FetchPhase{},
		&PlanPhase{},
		&PatchPhase{},
		&ApplyPhase{},
	}
}

// Deploy runs DeployPhases.
func Deploy(ctx *Context) error {
	ctx.Operation = OperationDeploy
	return RunPhases(ctx, DeployPhases())
}

// FetchPhase downloads the release manifests and stages them unmodified.
type FetchPhase struct{}

// Name implements the Phase interface.
func (p *FetchPhase) Name() string { return "fetch" }

// Provision implements the Phase interface.
func (p *FetchPhase) Provision(ctx *Context) error {
	bundle, err := templates.FetchAll(ctx, ctx.Source, ctx.Config.Rook.Version)
	ctx.Metrics.ObserveFetch(ctx.Source.String(), err)
	if err != nil {
		return fmt.Errorf("failed to fetch rook %s manifests from %s: %w", ctx.Config.Rook.Version, ctx.Source, err)
	}
	if err := ctx.Store.WriteBundle(bundle); err != nil {
		return err
	}
	ctx.State.Bundle = bundle
	ctx.Observer.Logger().Info("manifests staged", "version", bundle.Version, "dir", ctx.Store.Dir, "files", len(bundle.Manifests))
	return nil
}

// PlanPhase derives the storage plan from the configuration.
type PlanPhase struct{}

// Name implements the Phase interface.
func (p *PlanPhase) Name() string { return "plan" }

// Provision implements the Phase interface.
func (p *PlanPhase) Provision(ctx *Context) error {
	plan, err := topology.Plan(ctx.Config.ClusterSpec())
	if err != nil {
		return err
	}
	for _, name := range plan.SkippedNodes {
		ctx.Observer.Event(Event{
			Type:     EventNodeSkipped,
			Phase:    p.Name(),
			Resource: name,
			Message:  "skipping node without volumes",
		})
	}
	ctx.Metrics.SetPlan(plan.NodeCount, plan.MonCount)
	ctx.State.Plan = plan
	ctx.Observer.Logger().Info("storage plan",
		"useAllNodes", plan.UseAllNodes,
		"nodes", plan.NodeCount,
		"mons", plan.MonCount,
		"replicas", plan.ReplicaCount)
	return nil
}

// PatchPhase rewrites the staged operator, cluster and storage class
// manifests according to the plan.
type PatchPhase struct{}

// Name implements the Phase interface.
func (p *PatchPhase) Name() string { return "patch" }

// Provision implements the Phase interface.
func (p *PatchPhase) Provision(ctx *Context) error {
	if ctx.State.Plan == nil {
		return fmt.Errorf("no storage plan")
	}
	bundle := ctx.State.Bundle
	if bundle == nil {
		var err error
		if bundle, err = ctx.Store.ReadBundle(); err != nil {
			return err
		}
	}

	patched, err := PatchBundle(bundle, ctx.State.Plan, ctx.Config.ClusterSpec().Image())
	if err != nil {
		return err
	}
	if err := ctx.Store.WriteBundle(patched); err != nil {
		return err
	}
	ctx.State.Bundle = patched
	return nil
}

// PatchBundle returns a copy of bundle with the operator, cluster and
// storage class manifests patched for plan. image is pinned when non-empty.
func PatchBundle(bundle *templates.Bundle, plan *topology.StoragePlan, image string) (*templates.Bundle, error) {
	in, err := parseTemplates(bundle)
	if err != nil {
		return nil, err
	}
	out, err := patch.Apply(plan, image, in)
	if err != nil {
		return nil, err
	}

	operator, err := manifest.SerializeStream(out.Operator)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", templates.Operator, err)
	}
	cluster, err := manifest.Serialize(out.Cluster)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", templates.Cluster, err)
	}
	storageClass, err := manifest.SerializeStream(out.StorageClass)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", templates.StorageClass, err)
	}

	result := &templates.Bundle{Version: bundle.Version, Manifests: append([]templates.Manifest(nil), bundle.Manifests...)}
	result.Set(templates.Operator, operator)
	result.Set(templates.Cluster, cluster)
	result.Set(templates.StorageClass, storageClass)
	return result, nil
}

func parseTemplates(bundle *templates.Bundle) (*patch.Templates, error) {
	get := func(name string) ([]byte, error) {
		data, ok := bundle.Get(name)
		if !ok {
			return nil, fmt.Errorf("bundle has no %s", name)
		}
		return data, nil
	}

	data, err := get(templates.Operator)
	if err != nil {
		return nil, err
	}
	operator, err := manifest.ParseStream(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", templates.Operator, err)
	}

	if data, err = get(templates.Cluster); err != nil {
		return nil, err
	}
	cluster, err := manifest.ParseOne(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", templates.Cluster, err)
	}

	if data, err = get(templates.StorageClass); err != nil {
		return nil, err
	}
	storageClass, err := manifest.ParseStream(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", templates.StorageClass, err)
	}

	return &patch.Templates{Operator: operator, Cluster: cluster, StorageClass: storageClass}, nil
}

// ApplyPhase applies the staged manifests in order, waiting for the
// operator after operator.yaml and for the toolbox at the end, then marks
// the block storage class as the cluster default.
type ApplyPhase struct{}

// Name implements the Phase interface.
func (p *ApplyPhase) Name() string { return "apply" }

// Provision implements the Phase interface.
func (p *ApplyPhase) Provision(ctx *Context) error {
	bundle, err := ctx.Store.ReadBundle()
	if err != nil {
		return err
	}

	for i, m := range bundle.Manifests {
		err := ctx.Executor.Apply(ctx, m.Name, m.Data)
		ctx.Metrics.ObserveManifest(m.Name, "apply", err)
		if err != nil {
			return err
		}
		LogManifestApplied(ctx.Observer, p.Name(), m.Name)
		ctx.Observer.Progress(p.Name(), i+1, len(bundle.Manifests))

		if m.Name == templates.Operator {
			if err := p.awaitRollout(ctx, OperatorDeployment); err != nil {
				return err
			}
			if err := ctx.sleep(ctx.Timeouts.OperatorSettle); err != nil {
				return err
			}
			continue
		}
		if err := ctx.sleep(ctx.Timeouts.ApplyInterval); err != nil {
			return err
		}
	}

	if err := p.awaitRollout(ctx, ToolboxDeployment); err != nil {
		return err
	}
	return ctx.Executor.SetDefaultStorageClass(ctx, DefaultStorageClass)
}

func (p *ApplyPhase) awaitRollout(ctx *Context, deployment string) error {
	LogRolloutWaiting(ctx.Observer, p.Name(), RookNamespace, deployment, ctx.Timeouts.Rollout)
	if err := ctx.Executor.RolloutStatus(ctx, RookNamespace, deployment, ctx.Timeouts.Rollout); err != nil {
		return err
	}
	LogRolloutReady(ctx.Observer, p.Name(), RookNamespace, deployment)
	return nil
}
