package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	cfg := map[string]string{
		"PORT":    "9090",
		"BAD_INT": "nine",
		"DEBUG":   "true",
		"ORIGINS": "https://a.dev, ,https://b.dev",
		"EMPTY":   "",
		"TIMEOUT": "7",
	}

	assert.Equal(t, "9090", GetString(cfg, "PORT", "8080"))
	assert.Equal(t, "fallback", GetString(cfg, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
	assert.Equal(t, 9090, GetInt(cfg, "PORT", 1))
	assert.Equal(t, 1, GetInt(cfg, "BAD_INT", 1))
	assert.True(t, GetBool(cfg, "DEBUG", false))
	assert.False(t, GetBool(cfg, "MISSING", false))
	assert.Equal(t, 7*time.Second, GetSeconds(cfg, "TIMEOUT", 15))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, GetList(cfg, "ORIGINS"))
	assert.Nil(t, GetList(cfg, "MISSING"))
}

func TestSplit(t *testing.T) {
	k, v := split("A=b=c")
	assert.Equal(t, "A", k)
	assert.Equal(t, "b=c", v)

	k, v = split("FLAG")
	assert.Equal(t, "FLAG", k)
	assert.Equal(t, "", v)
}

type fakeSSM struct {
	pages [][]types.Parameter
	calls int
}

func (f *fakeSSM) GetParametersByPath(_ context.Context, _ *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	out := &ssm.GetParametersByPathOutput{Parameters: f.pages[f.calls]}
	f.calls++
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestOverlayFrom(t *testing.T) {
	client := &fakeSSM{pages: [][]types.Parameter{
		{{Name: aws.String("/portfolio/prod/DB_PASSWORD"), Value: aws.String("secret")}},
		{{Name: aws.String("/portfolio/prod/PORT"), Value: aws.String("1234")}},
	}}
	cfg := map[string]string{"PORT": "8080"}

	n, err := overlayFrom(context.Background(), client, "/portfolio/prod", cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, "secret", cfg["DB_PASSWORD"])
	assert.Equal(t, "8080", cfg["PORT"], "environment values win over ssm")
	assert.Equal(t, 2, client.calls)
}
