package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	batchv1 "k8s.io/api/batch/v1"

	"github.com/PhantomInTheWire/emoji-splitter/apps/internal/s3flags"
	"github.com/PhantomInTheWire/emoji-splitter/pkg/kube"
	"github.com/PhantomInTheWire/emoji-splitter/pkg/split"
	"github.com/PhantomInTheWire/emoji-splitter/pkg/storage"
)

const desc = `Uploads emoji sheets to a bucket and submits one Kubernetes split Job per sheet.`

var cli struct {
	Inputs []string `arg:"" help:"Sheet images or directories of sheets." type:"existingpath"`

	Namespace   string `help:"Namespace for the Jobs." default:"default" env:"KUBE_NAMESPACE"`
	Image       string `help:"Container image running emojisplit." default:"${image}" env:"SPLIT_IMAGE"`
	Kubeconfig  string `help:"Path to kubeconfig (default: ~/.kube/config)." env:"KUBECONFIG"`
	Credentials string `help:"Secret the Jobs read S3 credentials from; created or updated from --s3-access-key/--s3-secret-key." default:"emoji-splitter-s3" env:"CREDENTIALS_SECRET"`

	BucketURL       string `help:"Bucket URL as seen from inside the cluster." default:"http://minio.default.svc:9000" env:"BUCKET_URL"`
	ClusterEndpoint string `help:"S3 endpoint as seen from inside the cluster." default:"http://minio.default.svc:9000" env:"CLUSTER_S3_ENDPOINT"`
	Format          string `help:"Output format for the cells." default:"png" env:"EMOJISPLIT_FORMAT"`

	S3 s3flags.Flags `embed:"" prefix:"s3-" group:"Upload"`
}

// Keys of the credentials Secret.
const (
	accessKeyField = "access-key"
	secretKeyField = "secret-key"
)

var sheetExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".webp": true,
}

func checkErr(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func collectSheets(inputs []string) ([]string, error) {
	var sheets []string
	for _, in := range inputs {
		err := filepath.Walk(in, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && sheetExts[strings.ToLower(filepath.Ext(p))] {
				sheets = append(sheets, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return sheets, nil
}

// sheetObjects names every sheet after its file, adding -2, -3... when
// sheets from different directories share a name, so each gets its own
// object and its own cell prefix.
func sheetObjects(sheets []string) []storage.Object {
	used := make(map[string]bool, len(sheets))
	objs := make([]storage.Object, 0, len(sheets))
	for _, s := range sheets {
		base := filepath.Base(s)
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)

		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		used[strings.ToLower(name)] = true
		objs = append(objs, storage.Object{File: s, Name: name})
	}
	return objs
}

func splitJob(runID, key string, format split.Format) *batchv1.Job {
	sheet := path.Base(key)
	base := strings.TrimSuffix(sheet, path.Ext(sheet))
	return kube.SplitJob(kube.JobConfig{
		Name:      kube.JobName(sheet),
		Namespace: cli.Namespace,
		Image:     cli.Image,
		SheetURL:  strings.TrimRight(cli.BucketURL, "/") + "/" + cli.S3.Bucket + "/" + key,
		Sheet:     sheet,
		Args:      []string{"--auto", "--format", format.Ext()},
		Env: map[string]string{
			"S3_ENDPOINT": cli.ClusterEndpoint,
			"S3_REGION":   cli.S3.Region,
			"S3_BUCKET":   cli.S3.Bucket,
			"S3_PREFIX":   path.Join("cells", runID, base),
		},
		Secret: cli.Credentials,
		SecretEnv: map[string]string{
			"S3_ACCESS_KEY": accessKeyField,
			"S3_SECRET_KEY": secretKeyField,
		},
	})
}

func main() {
	kctx := kong.Parse(
		&cli,
		kong.Name("controller"),
		kong.Description(desc),
		kong.Vars{"image": kube.DefaultImage},
	)
	if cli.S3.Bucket == "" {
		kctx.Fatalf("--s3-bucket is required")
	}
	format, err := split.ParseFormat(cli.Format)
	kctx.FatalIfErrorf(err)

	sheets, err := collectSheets(cli.Inputs)
	checkErr(err)
	if len(sheets) == 0 {
		fmt.Printf("No sheets in %s\n", strings.Join(cli.Inputs, ", "))
		return
	}

	ctx := context.Background()
	runID := uuid.NewString()

	uploader, err := storage.New(ctx, cli.S3.Config(path.Join("sheets", runID)))
	checkErr(err)
	keys, err := uploader.UploadObjects(ctx, sheetObjects(sheets))
	if err != nil {
		log.Printf("some sheets failed to upload: %v", err)
	}

	clientset, err := kube.NewClientset(cli.Kubeconfig)
	checkErr(err)
	checkErr(kube.EnsureSecret(ctx, clientset, cli.Namespace, cli.Credentials, map[string]string{
		accessKeyField: cli.S3.AccessKey,
		secretKeyField: cli.S3.SecretKey,
	}))

	fmt.Printf("Found %d sheets, submitting run %s\n", len(keys), runID)
	for _, key := range keys {
		job := splitJob(runID, key, format)
		if err := kube.Submit(ctx, clientset, job); err != nil {
			log.Printf("Failed to create job for sheet %s: %v", key, err)
		} else {
			log.Printf("Job %s created for sheet: %s", job.Name, key)
		}
	}
}
