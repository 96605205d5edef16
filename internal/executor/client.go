package executor

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/imamik/rookctl/internal/manifest"
)

const defaultPollInterval = 5 * time.Second

// ResettableMapper is a RESTMapper whose discovery cache can be dropped,
// so kinds from freshly applied CRDs become resolvable.
type ResettableMapper interface {
	meta.RESTMapper
	Reset()
}

// Client implements Executor with client-go.
type Client struct {
	clientset kubernetes.Interface
	dynamic   dynamic.Interface
	mapper    meta.RESTMapper

	// PollInterval is the rollout status poll period.
	PollInterval time.Duration
}

var _ Executor = (*Client)(nil)

// NewClient builds a Client from a kubeconfig path. An empty path uses the
// default loading rules ($KUBECONFIG, ~/.kube/config, in-cluster).
func NewClient(kubeconfig string) (*Client, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	rules.ExplicitPath = kubeconfig
	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	return NewClientFromConfig(restConfig)
}

// NewClientFromConfig builds a Client from a REST config.
func NewClientFromConfig(restConfig *rest.Config) (*Client, error) {
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}
	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}
	mapper := restmapper.NewDeferredDiscoveryRESTMapper(memory.NewMemCacheClient(clientset.Discovery()))
	return NewClientFromClients(clientset, dynamicClient, mapper), nil
}

// NewClientFromClients creates a Client from pre-configured clients.
// This is useful for testing with fake clients.
func NewClientFromClients(clientset kubernetes.Interface, dynamicClient dynamic.Interface, mapper meta.RESTMapper) *Client {
	return &Client{
		clientset:    clientset,
		dynamic:      dynamicClient,
		mapper:       mapper,
		PollInterval: defaultPollInterval,
	}
}

// Apply server-side applies each document of manifest in order.
func (c *Client) Apply(ctx context.Context, name string, data []byte) error {
	docs, err := manifest.ParseStream(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for _, doc := range docs {
		obj := &unstructured.Unstructured{Object: doc.Object}
		if err := c.applyObject(ctx, obj); err != nil {
			return fmt.Errorf("failed to apply %s %s from %s: %w", obj.GetKind(), objectName(obj), name, err)
		}
	}
	return nil
}

// Delete deletes each document of manifest in order. Missing objects and
// kinds the server does not know are skipped.
func (c *Client) Delete(ctx context.Context, name string, data []byte, timeout time.Duration) error {
	docs, err := manifest.ParseStream(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	policy := metav1.DeletePropagationBackground
	for _, doc := range docs {
		obj := &unstructured.Unstructured{Object: doc.Object}
		resource, err := c.resourceFor(obj)
		if meta.IsNoMatchError(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to delete %s %s from %s: %w", obj.GetKind(), objectName(obj), name, err)
		}
		err = resource.Delete(ctx, obj.GetName(), metav1.DeleteOptions{PropagationPolicy: &policy})
		if err != nil && !apierrors.IsNotFound(err) {
			return fmt.Errorf("failed to delete %s %s from %s: %w", obj.GetKind(), objectName(obj), name, err)
		}
	}
	return nil
}

// RolloutStatus polls the deployment until it is fully rolled out. A
// deployment that does not exist yet is polled like one still rolling out.
func (c *Client) RolloutStatus(ctx context.Context, namespace, deployment string, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, c.PollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		d, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, deployment, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return RolledOut(d), nil
	})
	if err != nil {
		return fmt.Errorf("rollout of %s/%s did not complete: %w", namespace, deployment, err)
	}
	return nil
}

// SetDefaultStorageClass merge-patches the default class annotation.
func (c *Client) SetDefaultStorageClass(ctx context.Context, name string) error {
	patch, err := defaultClassPatch()
	if err != nil {
		return err
	}
	_, err = c.clientset.StorageV1().StorageClasses().Patch(ctx, name, types.MergePatchType, patch, metav1.PatchOptions{FieldManager: FieldManager})
	if err != nil {
		return fmt.Errorf("failed to mark storage class %s as default: %w", name, err)
	}
	return nil
}

// RolledOut applies the checks of kubectl rollout status: the controller
// has observed the latest spec and every replica is updated and available.
func RolledOut(d *appsv1.Deployment) bool {
	if d.Generation > d.Status.ObservedGeneration {
		return false
	}
	replicas := int32(1)
	if d.Spec.Replicas != nil {
		replicas = *d.Spec.Replicas
	}
	if d.Status.UpdatedReplicas < replicas {
		return false
	}
	if d.Status.Replicas > d.Status.UpdatedReplicas {
		return false
	}
	return d.Status.AvailableReplicas >= d.Status.UpdatedReplicas
}

func (c *Client) applyObject(ctx context.Context, obj *unstructured.Unstructured) error {
	resource, err := c.resourceFor(obj)
	if err != nil {
		return err
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal object to JSON: %w", err)
	}

	force := true
	_, err = resource.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, metav1.PatchOptions{
		FieldManager: FieldManager,
		Force:        &force,
	})
	if err != nil {
		return fmt.Errorf("server-side apply failed: %w", err)
	}
	return nil
}

// resourceFor maps obj to its dynamic resource client. On an unknown kind
// the discovery cache is dropped once and the lookup retried, since the
// CRDs may have been applied moments ago.
func (c *Client) resourceFor(obj *unstructured.Unstructured) (dynamic.ResourceInterface, error) {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return nil, fmt.Errorf("object has no kind set")
	}

	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if meta.IsNoMatchError(err) {
		if resettable, ok := c.mapper.(ResettableMapper); ok {
			resettable.Reset()
			mapping, err = c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	if mapping.Scope.Name() != meta.RESTScopeNameNamespace {
		return c.dynamic.Resource(mapping.Resource), nil
	}
	namespace := obj.GetNamespace()
	if namespace == "" {
		namespace = metav1.NamespaceDefault
	}
	return c.dynamic.Resource(mapping.Resource).Namespace(namespace), nil
}

func objectName(obj *unstructured.Unstructured) string {
	if ns := obj.GetNamespace(); ns != "" {
		return ns + "/" + obj.GetName()
	}
	return obj.GetName()
}
