// Package kube runs sheet splits as Kubernetes Jobs.
package kube

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	meta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/retry"
)

// DefaultImage runs the emojisplit CLI.
const DefaultImage = "ghcr.io/phantominthewire/emoji-splitter:latest"

const workDir = "/work"

func int32Ptr(i int32) *int32 { return &i }

var invalidName = regexp.MustCompile(`[^a-z0-9-]`)

// JobName turns a sheet file name into a unique DNS-1123 job name of at most
// 63 characters.
func JobName(sheet string) string {
	base := strings.TrimSuffix(filepath.Base(sheet), filepath.Ext(sheet))
	sanitized := strings.Trim(invalidName.ReplaceAllString(strings.ToLower(base), "-"), "-")

	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	const head = "emoji-split-"
	room := 63 - len(head) - len(suffix) - 1
	if len(sanitized) > room {
		sanitized = strings.TrimRight(sanitized[:room], "-")
	}
	if sanitized == "" {
		return head + suffix
	}
	return head + sanitized + "-" + suffix
}

// JobConfig describes one in-cluster split.
type JobConfig struct {
	Name      string
	Namespace string
	Image     string
	// SheetURL is fetched with curl into the pod.
	SheetURL string
	// Sheet is the file name the sheet is saved as.
	Sheet string
	// Args are appended to "emojisplit split <sheet>", e.g. layout and
	// upload flags.
	Args []string
	// Env is passed to the split container, typically S3 settings.
	Env map[string]string
	// SecretEnv maps env var names to keys of the Secret named Secret, so
	// credentials never appear in the Job spec.
	Secret    string
	SecretEnv map[string]string
}

// SplitJob builds a Job that:
// 1) downloads the sheet into a shared volume
// 2) runs emojisplit split on it
func SplitJob(cfg JobConfig) *batchv1.Job {
	image := cfg.Image
	if image == "" {
		image = DefaultImage
	}
	sheetPath := workDir + "/" + filepath.Base(cfg.Sheet)
	args := append([]string{"split", sheetPath, "--out", workDir + "/out"}, cfg.Args...)

	env := make([]corev1.EnvVar, 0, len(cfg.Env)+len(cfg.SecretEnv))
	for _, k := range sortedKeys(cfg.Env) {
		env = append(env, corev1.EnvVar{Name: k, Value: cfg.Env[k]})
	}
	for _, k := range sortedKeys(cfg.SecretEnv) {
		env = append(env, corev1.EnvVar{
			Name: k,
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: cfg.Secret},
					Key:                  cfg.SecretEnv[k],
				},
			},
		})
	}

	mounts := []corev1.VolumeMount{{
		Name:      "work",
		MountPath: workDir,
	}}

	return &batchv1.Job{
		ObjectMeta: meta.ObjectMeta{
			Name:      cfg.Name,
			Namespace: cfg.Namespace,
			Labels:    map[string]string{"app": "emoji-splitter"},
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: int32Ptr(1),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: meta.ObjectMeta{
					Labels: map[string]string{"job-name": cfg.Name},
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyOnFailure,

					InitContainers: []corev1.Container{{
						Name:  "fetch-sheet",
						Image: "curlimages/curl:7.85.0",
						Command: []string{
							"sh", "-c",
							fmt.Sprintf("curl -sf %q -o %q", cfg.SheetURL, sheetPath),
						},
						VolumeMounts: mounts,
					}},

					Containers: []corev1.Container{{
						Name:         "split",
						Image:        image,
						Command:      []string{"emojisplit"},
						Args:         args,
						Env:          env,
						VolumeMounts: mounts,
					}},

					Volumes: []corev1.Volume{{
						Name: "work",
						VolumeSource: corev1.VolumeSource{
							EmptyDir: &corev1.EmptyDirVolumeSource{},
						},
					}},
				},
			},
		},
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewClientset loads kubeconfig, defaulting to ~/.kube/config.
func NewClientset(kubeconfig string) (kubernetes.Interface, error) {
	if kubeconfig == "" {
		kubeconfig = clientcmd.RecommendedHomeFile
	}
	cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig: %w", err)
	}
	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building clientset: %w", err)
	}
	return clientset, nil
}

// EnsureSecret creates an Opaque Secret holding data, or replaces the data
// of an existing one.
func EnsureSecret(ctx context.Context, clientset kubernetes.Interface, namespace, name string, data map[string]string) error {
	secrets := clientset.CoreV1().Secrets(namespace)
	_, err := secrets.Create(ctx, &corev1.Secret{
		ObjectMeta: meta.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    map[string]string{"app": "emoji-splitter"},
		},
		Type:       corev1.SecretTypeOpaque,
		StringData: data,
	}, meta.CreateOptions{})
	if err == nil || !apierrors.IsAlreadyExists(err) {
		return err
	}

	return retry.RetryOnConflict(retry.DefaultRetry, func() error {
		existing, err := secrets.Get(ctx, name, meta.GetOptions{})
		if err != nil {
			return err
		}
		existing.Data = nil
		existing.StringData = data
		_, err = secrets.Update(ctx, existing, meta.UpdateOptions{})
		return err
	})
}

// Submit creates job, retrying on conflicts.
func Submit(ctx context.Context, clientset kubernetes.Interface, job *batchv1.Job) error {
	return retry.RetryOnConflict(retry.DefaultRetry, func() error {
		_, err := clientset.BatchV1().Jobs(job.Namespace).Create(ctx, job, meta.CreateOptions{})
		return err
	})
}
