package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// OverlaySSM copies every parameter stored under SSM_PARAMETER_PATH into cfg, keyed by the
// last path element (/portfolio/prod/DB_PASSWORD -> DB_PASSWORD). Values already present in
// the process environment win. Without SSM_PARAMETER_PATH this is a no-op.
func OverlaySSM(ctx context.Context, cfg map[string]string) error {
	prefix := GetString(cfg, "SSM_PARAMETER_PATH", "")
	if prefix == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("loading aws config: %w", err)
	}

	n, err := overlayFrom(ctx, ssm.NewFromConfig(awsCfg), prefix, cfg)
	if err != nil {
		return err
	}
	log.Info().Str("path", prefix).Int("parameters", n).Msg("Applied SSM parameter overlay")
	return nil
}

func overlayFrom(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string, cfg map[string]string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	applied := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return applied, fmt.Errorf("reading ssm parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			key := path.Base(aws.ToString(p.Name))
			if _, set := cfg[key]; set {
				continue
			}
			cfg[key] = aws.ToString(p.Value)
			applied++
		}
	}
	return applied, nil
}
