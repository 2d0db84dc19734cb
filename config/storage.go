package config

import "strings"

const (
	UploadBackendLocal = "local"
	UploadBackendS3    = "s3"
	UploadBackendMinio = "minio"
)

type UploadConfig struct {
	Backend string
	Dir     string

	S3    S3Config
	Minio MinioConfig
}

// S3Config covers AWS S3 and S3-compatible services such as Cloudflare R2.
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		Backend: strings.ToLower(getEnv("UPLOAD_BACKEND", UploadBackendLocal)),
		Dir:     getEnv("UPLOAD_DIR", "static/uploads"),
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "auto"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "waste-uploads"),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
	}
}
