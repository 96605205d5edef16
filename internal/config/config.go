package config

import (
	"os"
	"strings"

	"github.com/imamik/rookctl/internal/topology"
)

// Default values applied by [Config.ApplyDefaults].
const (
	DefaultImageUser  = "ceph"
	DefaultStagingDir = "/tmp/rook-ceph"
	DefaultExecutor   = ExecutorKubectl
)

// Executor names accepted in rook.executor.
const (
	ExecutorKubectl = "kubectl"
	ExecutorClient  = "client"
)

// Environment variables holding the S3 mirror credentials. Credentials are
// never read from the configuration file.
const (
	EnvS3AccessKey = "ROOKCTL_S3_ACCESS_KEY"
	EnvS3SecretKey = "ROOKCTL_S3_SECRET_KEY"
)

// Config is the input of a deploy or reset run. The YAML file and the
// Ansible deploy/reset argument share this shape.
type Config struct {
	Rook RookConfig `mapstructure:"rook" yaml:"rook"`
	Ceph CephConfig `mapstructure:"ceph" yaml:"ceph"`
}

// RookConfig selects the Rook release and where its manifests come from.
type RookConfig struct {
	Version    string       `mapstructure:"version" yaml:"version"`
	Source     SourceConfig `mapstructure:"source" yaml:"source,omitempty"`
	StagingDir string       `mapstructure:"stagingDir" yaml:"stagingDir,omitempty"`
	Kubeconfig string       `mapstructure:"kubeconfig" yaml:"kubeconfig,omitempty"`
	Executor   string       `mapstructure:"executor" yaml:"executor,omitempty" validate:"omitempty,oneof=kubectl client"`
}

// SourceConfig picks the template source. At most one of URL, Dir and S3
// may be set; with none set the upstream GitHub raw URL is used.
type SourceConfig struct {
	URL string   `mapstructure:"url" yaml:"url,omitempty" validate:"omitempty,url"`
	Dir string   `mapstructure:"dir" yaml:"dir,omitempty"`
	S3  S3Config `mapstructure:"s3" yaml:"s3,omitempty"`
}

// S3Config describes an S3-compatible template mirror.
type S3Config struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty" validate:"omitempty,url"`
	Region   string `mapstructure:"region" yaml:"region,omitempty"`
	Bucket   string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix,omitempty"`

	AccessKey string `mapstructure:"-" yaml:"-"`
	SecretKey string `mapstructure:"-" yaml:"-"`
}

// Enabled reports whether an S3 mirror is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// CephConfig describes the storage topology.
type CephConfig struct {
	Image         ImageConfig  `mapstructure:"image" yaml:"image,omitempty"`
	Mode          string       `mapstructure:"mode" yaml:"mode,omitempty" validate:"storagemode"`
	OSDsPerDevice int          `mapstructure:"osdsPerDevice" yaml:"osdsPerDevice,omitempty" validate:"gte=0"`
	ForceCleanup  bool         `mapstructure:"forceCleanup" yaml:"forceCleanup,omitempty"`
	Nodes         []NodeConfig `mapstructure:"nodes" yaml:"nodes,omitempty" validate:"dive"`
}

// ImageConfig pins the Ceph container image as {user}/ceph:v{version}.
type ImageConfig struct {
	User    string `mapstructure:"user" yaml:"user,omitempty"`
	Version string `mapstructure:"version" yaml:"version,omitempty"`
}

// NodeConfig is one storage node. Metadata is the device holding OSD
// metadata; Volumes are the devices turned into OSDs.
type NodeConfig struct {
	Name     string   `mapstructure:"name" yaml:"name" validate:"required"`
	Metadata string   `mapstructure:"metadata" yaml:"metadata,omitempty"`
	Volumes  []string `mapstructure:"volumes" yaml:"volumes,omitempty" validate:"dive,required"`
}

// ApplyDefaults fills unset fields and reads S3 credentials from the
// environment.
func (c *Config) ApplyDefaults() {
	if c.Rook.StagingDir == "" {
		c.Rook.StagingDir = DefaultStagingDir
	}
	if c.Rook.Executor == "" {
		c.Rook.Executor = DefaultExecutor
	}
	if c.Rook.Source.S3.AccessKey == "" {
		c.Rook.Source.S3.AccessKey = os.Getenv(EnvS3AccessKey)
	}
	if c.Rook.Source.S3.SecretKey == "" {
		c.Rook.Source.S3.SecretKey = os.Getenv(EnvS3SecretKey)
	}

	if c.Ceph.Mode == "" {
		c.Ceph.Mode = string(topology.ModeLVM)
	}
	c.Ceph.Mode = strings.ToUpper(strings.TrimSpace(c.Ceph.Mode))
	if c.Ceph.OSDsPerDevice == 0 {
		c.Ceph.OSDsPerDevice = topology.DefaultOSDsPerDevice
	}
	if c.Ceph.Image.User == "" {
		c.Ceph.Image.User = DefaultImageUser
	}
}

// ClusterSpec converts the ceph section into the planner input.
func (c *Config) ClusterSpec() topology.ClusterSpec {
	mode, _ := topology.ParseMode(c.Ceph.Mode)

	var nodes []topology.NodeSpec
	if len(c.Ceph.Nodes) > 0 {
		nodes = make([]topology.NodeSpec, 0, len(c.Ceph.Nodes))
		for _, n := range c.Ceph.Nodes {
			nodes = append(nodes, topology.NodeSpec{
				Name:           n.Name,
				MetadataDevice: n.Metadata,
				Volumes:        append([]string(nil), n.Volumes...),
			})
		}
	}

	return topology.ClusterSpec{
		Mode:          mode,
		OSDsPerDevice: c.Ceph.OSDsPerDevice,
		ForceCleanup:  c.Ceph.ForceCleanup,
		ImageUser:     c.Ceph.Image.User,
		ImageVersion:  c.Ceph.Image.Version,
		Nodes:         nodes,
	}
}

// Node returns the node entry named name.
func (c *Config) Node(name string) (NodeConfig, bool) {
	for _, n := range c.Ceph.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return NodeConfig{}, false
}
