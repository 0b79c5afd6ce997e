package recognition

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// Config holds the Textract client settings.
type Config struct {
	Region          string
	Endpoint        string // optional override, e.g. for localstack
	AccessKeyID     string
	SecretAccessKey string
}

// DefaultConfig returns Textract defaults.
func DefaultConfig() Config {
	return Config{Region: "us-east-1"}
}

// textractCapability implements Capability against AWS Textract AnalyzeID.
type textractCapability struct {
	client *textract.Client
}

// NewTextractCapability builds the Textract-backed capability. Missing
// credentials yield the unavailable capability instead of an error; the
// degradation is reported once here.
func NewTextractCapability(ctx context.Context, cfg Config) Capability {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		slog.Warn("Recognition capability unavailable; AWS credentials are not configured")
		return Unavailable()
	}
	if cfg.Region == "" {
		cfg.Region = DefaultConfig().Region
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		slog.Warn("Recognition capability unavailable; AWS config load failed", "error", err)
		return Unavailable()
	}

	var optFns []func(*textract.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		optFns = append(optFns, func(o *textract.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	return &textractCapability{client: textract.NewFromConfig(awsCfg, optFns...)}
}

func (c *textractCapability) Available() bool { return true }

// AnalyzeIdentityDocument calls Textract AnalyzeID. Transient remote failures
// degrade to an empty result, indistinguishable to callers from an
// unconfigured capability.
func (c *textractCapability) AnalyzeIdentityDocument(ctx context.Context, imageBytes []byte) ([]Document, error) {
	out, err := c.client.AnalyzeID(ctx, &textract.AnalyzeIDInput{
		DocumentPages: []types.Document{{Bytes: imageBytes}},
	})
	if err != nil {
		slog.Warn("Identity document analysis failed", "error", err)
		return nil, nil
	}

	docs := make([]Document, 0, len(out.IdentityDocuments))
	for _, doc := range out.IdentityDocuments {
		d := Document{DocumentIndex: int(aws.ToInt32(doc.DocumentIndex))}
		for _, f := range doc.IdentityDocumentFields {
			var field Field
			if f.Type != nil {
				field.TypeCode = aws.ToString(f.Type.Text)
			}
			if f.ValueDetection != nil {
				field.Text = aws.ToString(f.ValueDetection.Text)
				field.Confidence = float64(aws.ToFloat32(f.ValueDetection.Confidence))
			}
			d.Fields = append(d.Fields, field)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
