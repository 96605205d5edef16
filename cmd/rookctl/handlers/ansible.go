package handlers

import (
	"context"
	"io"

	"github.com/imamik/rookctl/internal/ansible"
	"github.com/imamik/rookctl/internal/config"
	"github.com/imamik/rookctl/internal/util/prerequisites"
)

// moduleOperations runs module requests on the managed host itself.
type moduleOperations struct{}

func (moduleOperations) Deploy(ctx context.Context, cfg *config.Config) error {
	return runDeploy(ctx, cfg)
}

func (moduleOperations) Reset(ctx context.Context, cfg *config.Config) error {
	host, err := hostname()
	if err != nil {
		return err
	}
	if err := requireTools(prerequisites.WipeTools()); err != nil {
		return err
	}
	return runReset(ctx, cfg, host, newLocalRunner(geteuid() != 0))
}

// Ansible handles the ansible command. It runs as an Ansible binary
// module: argsPath is the JSON arguments file and the result is written
// to w. Module failures are reported in the result, so only a failed
// write is returned as an error.
func Ansible(ctx context.Context, argsPath string, w io.Writer) error {
	var res *ansible.Result

	args, err := ansible.ReadArgs(argsPath)
	if err != nil {
		res = ansible.NewResult()
		res.Fail(err)
	} else {
		res = ansible.Run(ctx, moduleOperations{}, args)
	}

	if res.Failed {
		logger.Error(nil, "module failed", "msg", res.Msg)
	}
	return res.Write(w)
}
