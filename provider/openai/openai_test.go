package openai

import (
	"testing"

	"github.com/hupe1980/msgflow/message"
	"github.com/hupe1980/msgflow/modality"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentParts(t *testing.T) {
	img := modality.NewImage([]byte{1, 2}, "image/png")
	m := message.FromChunks(message.RoleUser, []message.Chunk{
		message.Text("describe this"),
		message.Object(img),
	}, message.DefaultSeparator)

	parts, err := ContentParts(m)
	require.NoError(t, err)
	require.Len(t, parts, 2)

	require.NotNil(t, parts[0].OfText)
	assert.Equal(t, "describe this", parts[0].OfText.Text)

	require.NotNil(t, parts[1].OfImageURL)
	assert.Equal(t, img.DataURI(), parts[1].OfImageURL.ImageURL.URL)
}

func TestContentPartsExternalImage(t *testing.T) {
	img := modality.NewBlobFromURI("https://example.com/a.png", "image/png")
	m := message.FromChunks(message.RoleUser, []message.Chunk{message.Object(img)}, message.DefaultSeparator)

	parts, err := ContentParts(m)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "https://example.com/a.png", parts[0].OfImageURL.ImageURL.URL)
}

func TestContentPartsUnsupportedModality(t *testing.T) {
	audio := modality.NewBlob([]byte{1}, "audio/wav")
	m := message.FromChunks(message.RoleUser, []message.Chunk{message.Object(audio)}, message.DefaultSeparator)

	_, err := ContentParts(m)
	assert.Error(t, err)
}

func TestMessageParamRoles(t *testing.T) {
	sys, err := MessageParam(message.NewSystem("be terse"))
	require.NoError(t, err)
	assert.NotNil(t, sys.OfSystem)

	ai, err := MessageParam(message.NewAI("done"))
	require.NoError(t, err)
	assert.NotNil(t, ai.OfAssistant)

	user, err := MessageParam(message.NewUser("hi"))
	require.NoError(t, err)
	require.NotNil(t, user.OfUser)
	require.Len(t, user.OfUser.Content.OfArrayOfContentParts, 1)
	assert.Equal(t, "hi", user.OfUser.Content.OfArrayOfContentParts[0].OfText.Text)
}

func TestHistory(t *testing.T) {
	sys := message.NewSystem("rules")
	u := message.NewUser("question", func(o *message.Options) { o.Source = sys })
	a := message.NewAI("answer", func(o *message.Options) { o.Source = u })

	msgs, err := History(a)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	assert.NotNil(t, msgs[2].OfAssistant)
}

func TestFromCompletion(t *testing.T) {
	prompt := message.NewUser("2+2?")
	completion := &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "4"}},
		},
		Usage: openai.CompletionUsage{PromptTokens: 3, CompletionTokens: 1, TotalTokens: 4},
	}

	m, err := FromCompletion(completion, prompt)
	require.NoError(t, err)
	assert.True(t, m.Equal("4"))
	assert.True(t, m.FromAgent())
	assert.Same(t, prompt, m.Source())
	assert.True(t, m.HasTag(message.TagLMResponse))
	assert.True(t, prompt.HasTag(message.TagLMInput))
	assert.Equal(t, int64(3), m.Get("usage.prompt_tokens", nil))
	assert.Equal(t, int64(4), m.Get("usage.total_tokens", nil))

	// The raw response is reachable from downstream transforms.
	final := message.NewAI("four", func(o *message.Options) { o.Source = m })
	assert.Same(t, m, final.LMResponse())
	assert.Same(t, prompt, final.LMInput())
}

func TestFromCompletionNoChoices(t *testing.T) {
	_, err := FromCompletion(&openai.ChatCompletion{}, nil)
	assert.Error(t, err)
}
