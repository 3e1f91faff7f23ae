package llmfactory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bridgekit-ai/toolbridge/llmfactory"
	"github.com/bridgekit-ai/toolbridge/pkg/chat"
)

const testConfig = `
providers:
  - name: openai-default
    provider: OPENAI
    token: test-token
    default_model: gpt-4o-mini
  - name: claude
    provider: ANTHROPIC
    token: test-token
    default_model: claude-sonnet-4-20250514
`

func TestFactory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "llm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	f, err := llmfactory.Load(path)
	require.NoError(t, err)

	def, err := f.DefaultCompleter()
	require.NoError(t, err)
	assert.Equal(t, chat.ProviderOpenAI, def.GetProviderType())

	claude, err := f.CompleterByName("claude")
	require.NoError(t, err)
	assert.Equal(t, chat.ProviderAnthropic, claude.GetProviderType())

	// cached on second lookup
	again, err := f.CompleterByName("claude")
	require.NoError(t, err)
	assert.Same(t, claude, again)

	_, err = f.CompleterByName("unknown")
	assert.EqualError(t, err, "provider not found: unknown")
}

func TestFactoryEmpty(t *testing.T) {
	f := llmfactory.New(&llmfactory.Config{})
	_, err := f.DefaultCompleter()
	assert.EqualError(t, err, "no providers configured")
}

func TestNewCompleterUnsupported(t *testing.T) {
	_, err := llmfactory.NewCompleter(&llmfactory.ProviderConfig{
		Name:     "x",
		Provider: "BEDROCK",
	})
	assert.EqualError(t, err, "unsupported provider: BEDROCK")
}
