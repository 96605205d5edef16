package executor

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	storagev1 "k8s.io/api/storage/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/restmapper"
	clienttesting "k8s.io/client-go/testing"
)

const operatorManifest = `apiVersion: v1
kind: ConfigMap
metadata:
  name: rook-ceph-operator-config
  namespace: rook-ceph
data:
  ROOK_ENABLE_DISCOVERY_DAEMON: "true"
---
apiVersion: v1
kind: Namespace
metadata:
  name: rook-ceph
---
apiVersion: ceph.rook.io/v1
kind: CephCluster
metadata:
  name: rook-ceph
  namespace: rook-ceph
spec:
  mon:
    count: 3
`

var cephClusterGVR = schema.GroupVersionResource{Group: "ceph.rook.io", Version: "v1", Resource: "cephclusters"}

func testMapper() meta.RESTMapper {
	return restmapper.NewDiscoveryRESTMapper([]*restmapper.APIGroupResources{
		{
			Group: metav1.APIGroup{
				Name:             "",
				Versions:         []metav1.GroupVersionForDiscovery{{GroupVersion: "v1", Version: "v1"}},
				PreferredVersion: metav1.GroupVersionForDiscovery{GroupVersion: "v1", Version: "v1"},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1": {
					{Name: "configmaps", Namespaced: true, Kind: "ConfigMap"},
					{Name: "namespaces", Namespaced: false, Kind: "Namespace"},
				},
			},
		},
		{
			Group: metav1.APIGroup{
				Name:             "ceph.rook.io",
				Versions:         []metav1.GroupVersionForDiscovery{{GroupVersion: "ceph.rook.io/v1", Version: "v1"}},
				PreferredVersion: metav1.GroupVersionForDiscovery{GroupVersion: "ceph.rook.io/v1", Version: "v1"},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1": {{Name: "cephclusters", Namespaced: true, Kind: "CephCluster"}},
			},
		},
	})
}

type patchRecord struct {
	resource  string
	namespace string
	name      string
	patchType types.PatchType
	body      map[string]interface{}
}

func newTestClient(t *testing.T, objects ...runtime.Object) (*Client, *dynamicfake.FakeDynamicClient, *[]patchRecord) {
	t.Helper()

	dyn := dynamicfake.NewSimpleDynamicClient(runtime.NewScheme(), objects...)
	var mu sync.Mutex
	var patches []patchRecord
	dyn.PrependReactor("patch", "*", func(action clienttesting.Action) (bool, runtime.Object, error) {
		pa := action.(clienttesting.PatchAction)
		body := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(pa.GetPatch(), &body))
		mu.Lock()
		patches = append(patches, patchRecord{
			resource:  pa.GetResource().Resource,
			namespace: pa.GetNamespace(),
			name:      pa.GetName(),
			patchType: pa.GetPatchType(),
			body:      body,
		})
		mu.Unlock()
		return true, &unstructured.Unstructured{Object: body}, nil
	})

	client := NewClientFromClients(fake.NewClientset(), dyn, testMapper())
	client.PollInterval = 5 * time.Millisecond
	return client, dyn, &patches
}

func TestClient_Apply(t *testing.T) {
	t.Parallel()

	client, _, patches := newTestClient(t)
	require.NoError(t, client.Apply(context.Background(), "operator.yaml", []byte(operatorManifest)))

	require.Len(t, *patches, 3)
	got := *patches
	assert.Equal(t, "configmaps", got[0].resource)
	assert.Equal(t, "rook-ceph", got[0].namespace)
	assert.Equal(t, types.ApplyPatchType, got[0].patchType)
	assert.Equal(t, "namespaces", got[1].resource)
	assert.Equal(t, "", got[1].namespace)
	assert.Equal(t, "cephclusters", got[2].resource)
	assert.Equal(t, "rook-ceph", got[2].name)

	count, found, err := unstructured.NestedInt64(got[2].body, "spec", "mon", "count")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(3), count)
}

func TestClient_Apply_UnknownKind(t *testing.T) {
	t.Parallel()

	client, _, _ := newTestClient(t)
	err := client.Apply(context.Background(), "cluster.yaml", []byte("apiVersion: ceph.rook.io/v1\nkind: CephBlockPool\nmetadata:\n  name: replicapool\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get REST mapping")
	assert.Contains(t, err.Error(), "cluster.yaml")
}

func TestClient_Apply_NoKind(t *testing.T) {
	t.Parallel()

	client, _, _ := newTestClient(t)
	err := client.Apply(context.Background(), "common.yaml", []byte("apiVersion: v1\nmetadata:\n  name: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no kind set")
}

func TestClient_Apply_ParseError(t *testing.T) {
	t.Parallel()

	client, _, _ := newTestClient(t)
	err := client.Apply(context.Background(), "crds.yaml", []byte("kind: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse crds.yaml")
}

func TestClient_Delete(t *testing.T) {
	t.Parallel()

	existing := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "ceph.rook.io/v1",
		"kind":       "CephCluster",
		"metadata":   map[string]interface{}{"name": "rook-ceph", "namespace": "rook-ceph"},
	}}
	client, dyn, _ := newTestClient(t, existing)

	manifest := operatorManifest + "---\napiVersion: ceph.rook.io/v1\nkind: CephObjectStore\nmetadata:\n  name: unknown\n"
	require.NoError(t, client.Delete(context.Background(), "operator.yaml", []byte(manifest), time.Second),
		"missing objects and unknown kinds are skipped")

	_, err := dyn.Resource(cephClusterGVR).Namespace("rook-ceph").Get(context.Background(), "rook-ceph", metav1.GetOptions{})
	assert.Error(t, err, "cluster was deleted")

	var deletes int
	for _, a := range dyn.Actions() {
		if a.GetVerb() == "delete" {
			deletes++
		}
	}
	assert.Equal(t, 3, deletes)
}

func int32Ptr(i int32) *int32 { return &i }

func deployment(name string, generation, observed int64, replicas, updated, available int32) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "rook-ceph", Generation: generation},
		Spec:       appsv1.DeploymentSpec{Replicas: int32Ptr(replicas)},
		Status: appsv1.DeploymentStatus{
			ObservedGeneration: observed,
			Replicas:           updated,
			UpdatedReplicas:    updated,
			AvailableReplicas:  available,
		},
	}
}

func TestRolledOut(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    *appsv1.Deployment
		want bool
	}{
		{name: "complete", d: deployment("op", 2, 2, 1, 1, 1), want: true},
		{name: "generation not observed", d: deployment("op", 3, 2, 1, 1, 1), want: false},
		{name: "replicas not updated", d: deployment("op", 1, 1, 3, 2, 2), want: false},
		{name: "not available", d: deployment("op", 1, 1, 1, 1, 0), want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RolledOut(tt.d), tt.name)
	}

	old := deployment("op", 1, 1, 1, 1, 1)
	old.Status.Replicas = 2
	assert.False(t, RolledOut(old), "old replicas still running")
}

func TestClient_RolloutStatus(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(deployment("rook-ceph-operator", 1, 1, 1, 1, 1))
	client := NewClientFromClients(clientset, dynamicfake.NewSimpleDynamicClient(runtime.NewScheme()), testMapper())
	client.PollInterval = 5 * time.Millisecond

	require.NoError(t, client.RolloutStatus(context.Background(), "rook-ceph", "rook-ceph-operator", time.Second))

	err := client.RolloutStatus(context.Background(), "rook-ceph", "rook-ceph-tools", 30*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollout of rook-ceph/rook-ceph-tools did not complete")
}

func TestClient_SetDefaultStorageClass(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(&storagev1.StorageClass{
		ObjectMeta:  metav1.ObjectMeta{Name: "rook-ceph-block"},
		Provisioner: "rook-ceph.rbd.csi.ceph.com",
	})
	client := NewClientFromClients(clientset, dynamicfake.NewSimpleDynamicClient(runtime.NewScheme()), testMapper())

	require.NoError(t, client.SetDefaultStorageClass(context.Background(), "rook-ceph-block"))

	sc, err := clientset.StorageV1().StorageClasses().Get(context.Background(), "rook-ceph-block", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "true", sc.Annotations[DefaultClassAnnotation])

	err = client.SetDefaultStorageClass(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to mark storage class missing as default")
}

func TestNewClient_InvalidKubeconfig(t *testing.T) {
	t.Parallel()

	_, err := NewClient("/nonexistent/kubeconfig")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load kubeconfig")
}
