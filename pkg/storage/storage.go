// Package storage uploads property media to Cloudflare R2 through the S3
// API.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Settings carries the R2 credentials and bucket wiring.
type Settings struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PublicBase string
}

var settings Settings

// Init installs the R2 settings for the process.
func Init(s Settings) {
	settings = s
}

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			settings.AccessKey,
			settings.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", settings.AccountID))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

type UploadConfig struct {
	Data         *bytes.Buffer
	Filename     string
	ContentType  string
	PropertySlug string
	Category     string // "images", "videos", "documents"
}

type UploadResult struct {
	URL      string
	ObjectID string
}

func publicBase() string {
	if settings.PublicBase != "" {
		return strings.TrimSuffix(settings.PublicBase, "/")
	}
	return "https://cdn.gabbyproperties.co.ke"
}

// Upload stores processed media under a slug-organized key and returns the
// public URL.
func Upload(cfg UploadConfig) (UploadResult, error) {
	safeSlug := slug.Make(cfg.PropertySlug)

	ext := filepath.Ext(cfg.Filename)
	uniqueID := fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.New().String())
	uniqueFilename := uniqueID + ext

	category := cfg.Category
	if category == "" {
		category = "images"
	}
	objectKey := filepath.Join("properties", safeSlug, category, uniqueFilename)

	client, err := getS3Client()
	if err != nil {
		return UploadResult{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(settings.Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(cfg.Data.Bytes()),
		ContentType: aws.String(cfg.ContentType),
	}

	_, err = client.PutObject(context.TODO(), input)
	if err != nil {
		return UploadResult{}, fmt.Errorf("could not upload file to R2: %v", err)
	}

	return UploadResult{
		URL:      fmt.Sprintf("%s/%s", publicBase(), objectKey),
		ObjectID: uniqueID,
	}, nil
}

// Delete removes a previously uploaded object by its public URL.
func Delete(fullURL string) error {
	objectKey := objectKeyFromURL(fullURL)

	client, err := getS3Client()
	if err != nil {
		return err
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(settings.Bucket),
		Key:    aws.String(objectKey),
	}

	_, err = client.DeleteObject(context.TODO(), input)
	if err != nil {
		return fmt.Errorf("could not delete file from R2: %v", err)
	}

	return nil
}

// FileNameFromURL returns just the file name segment.
func FileNameFromURL(url string) string {
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

func objectKeyFromURL(url string) string {
	return strings.TrimPrefix(strings.TrimPrefix(url, publicBase()), "/")
}
