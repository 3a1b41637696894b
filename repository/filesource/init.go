package filesource

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"germplasm-accession-importer/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const SchemeS3 = "s3"

/*
S3Config 对象存储配置，留空的字段使用 AWS 默认配置链。

	Endpoint 非空时访问兼容 S3 的服务，例如 MinIO；
	PathStyle 使用 http://host/bucket/key 形式的地址；
*/
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}

type Config struct {
	S3 S3Config `yaml:"s3"`
}

func GenerateTestConfig() *Config {
	return &Config{S3: S3Config{Region: "us-east-1"}}
}

/*
Source 按位置打开输入文件：s3://bucket/key 从对象存储读取，其余按本地路径读取。
返回的内容统一解码为 UTF-8，UTF-8 BOM 会被去掉，带 BOM 的 UTF-16 会被转码。
*/
type Source struct {
	s3 *s3.Client
}

func New(ctx context.Context, config *Config) (*Source, error) {
	region := config.S3.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if config.S3.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.S3.AccessKeyID, config.S3.SecretAccessKey, "")))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, utils.WrapError(err, "load aws config fail")
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.UsePathStyle = config.S3.PathStyle
		if config.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.S3.Endpoint)
		}
	})

	return &Source{s3: client}, nil
}

func (s *Source) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	raw, err := s.openRaw(ctx, location)
	if err != nil {
		return nil, err
	}

	return &decodedReader{
		Reader: transform.NewReader(raw, unicode.BOMOverride(unicode.UTF8.NewDecoder())),
		raw:    raw,
	}, nil
}

func (s *Source) openRaw(ctx context.Context, location string) (io.ReadCloser, error) {
	if bucket, key, ok := parseS3Location(location); ok {
		out, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, utils.WrapErrorf(err, "get object [%s] fail", location)
		}
		return out.Body, nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return nil, utils.WrapErrorf(err, "stat [%s] fail", location)
	}
	if info.IsDir() {
		return nil, utils.WrapErrorf(os.ErrInvalid, "[%s] is a directory", location)
	}

	file, err := os.Open(location)
	if err != nil {
		return nil, utils.WrapErrorf(err, "open [%s] fail", location)
	}
	return file, nil
}

func parseS3Location(location string) (string, string, bool) {
	if !strings.HasPrefix(location, SchemeS3+"://") {
		return "", "", false
	}

	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return "", "", false
	}

	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", false
	}
	return u.Host, key, true
}

type decodedReader struct {
	io.Reader
	raw io.Closer
}

func (r *decodedReader) Close() error {
	return r.raw.Close()
}
