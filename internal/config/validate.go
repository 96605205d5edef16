package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/imamik/rookctl/internal/topology"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("storagemode", func(fl validator.FieldLevel) bool {
			_, ok := topology.ParseMode(fl.Field().String())
			return ok
		})
	})
	return validate
}

// Validate checks the fields every operation depends on. All problems are
// reported together, joined and wrapped with topology.ErrInvalidSpec.
func (c *Config) Validate() error {
	var errs []error

	if err := structValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", topology.ErrInvalidSpec, err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fieldError(fe))
		}
	}

	if n := c.Rook.Source.sources(); n > 1 {
		errs = append(errs, fmt.Errorf("rook.source: only one of url, dir and s3 may be set, got %d", n))
	}
	if c.Rook.Source.S3.Enabled() && c.Rook.Source.S3.Region == "" {
		errs = append(errs, fmt.Errorf("rook.source.s3.region is required when a bucket is set"))
	}

	return joinInvalid(errs)
}

// ValidateDeploy checks the fields a deploy needs on top of [Config.Validate].
func (c *Config) ValidateDeploy() error {
	var errs []error
	if strings.TrimSpace(c.Rook.Version) == "" {
		errs = append(errs, fmt.Errorf("rook.version is required"))
	}
	if strings.HasPrefix(c.Rook.Version, "v") {
		errs = append(errs, fmt.Errorf("rook.version %q must not carry a leading v", c.Rook.Version))
	}
	return joinInvalid(errs)
}

func (s SourceConfig) sources() int {
	n := 0
	if s.URL != "" {
		n++
	}
	if s.Dir != "" {
		n++
	}
	if s.S3.Enabled() {
		n++
	}
	return n
}

func joinInvalid(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", topology.ErrInvalidSpec, errors.Join(errs...))
}

// fieldError turns a validator failure into a message naming the YAML path.
func fieldError(fe validator.FieldError) error {
	path := yamlPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", path)
	case "oneof":
		return fmt.Errorf("%s %q must be one of: %s", path, fe.Value(), fe.Param())
	case "storagemode":
		return fmt.Errorf("%s %q must be one of %v", path, fe.Value(), topology.ValidModes())
	case "gte":
		return fmt.Errorf("%s must be >= %s, got %v", path, fe.Param(), fe.Value())
	case "url":
		return fmt.Errorf("%s %q is not a valid URL", path, fe.Value())
	default:
		return fmt.Errorf("%s failed %q validation", path, fe.Tag())
	}
}

var yamlNames = map[string]string{
	"Rook":          "rook",
	"Ceph":          "ceph",
	"Version":       "version",
	"Source":        "source",
	"StagingDir":    "stagingDir",
	"Kubeconfig":    "kubeconfig",
	"Executor":      "executor",
	"URL":           "url",
	"Dir":           "dir",
	"S3":            "s3",
	"Endpoint":      "endpoint",
	"Region":        "region",
	"Bucket":        "bucket",
	"Prefix":        "prefix",
	"Image":         "image",
	"User":          "user",
	"Mode":          "mode",
	"OSDsPerDevice": "osdsPerDevice",
	"ForceCleanup":  "forceCleanup",
	"Nodes":         "nodes",
	"Name":          "name",
	"Metadata":      "metadata",
	"Volumes":       "volumes",
}

// yamlPath converts "Config.Ceph.Nodes[1].Name" into "ceph.nodes[1].name".
func yamlPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		name, index := part, ""
		if j := strings.IndexByte(part, '['); j >= 0 {
			name, index = part[:j], part[j:]
		}
		if mapped, ok := yamlNames[name]; ok {
			name = mapped
		}
		parts[i] = name + index
	}
	return strings.Join(parts, ".")
}
