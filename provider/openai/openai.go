// Package openai converts between msgflow messages and the OpenAI Chat
// Completions message format. It adapts chunked messages (text + modality
// segments) into content-part unions and wraps completions back into tagged
// AI messages whose source points at the prompt.
package openai

import (
	"fmt"

	"github.com/hupe1980/msgflow/message"
	"github.com/hupe1980/msgflow/modality"
	"github.com/openai/openai-go"
)

// ContentParts converts a chunked message into chat content parts. Text
// chunks become text parts; image blobs become image_url parts carrying a
// data URI (or the blob's external URI when the payload is not inlined).
func ContentParts(m *message.Message) ([]openai.ChatCompletionContentPartUnionParam, error) {
	var parts []openai.ChatCompletionContentPartUnionParam
	for _, c := range m.Chunk() {
		switch chunk := c.(type) {
		case message.TextChunk:
			parts = append(parts, openai.ChatCompletionContentPartUnionParam{
				OfText: &openai.ChatCompletionContentPartTextParam{Text: chunk.Text},
			})
		case message.ModalityChunk:
			blob, ok := chunk.Modality.(*modality.Blob)
			if !ok || !blob.IsImage() {
				return nil, fmt.Errorf("openai: unsupported modality %T (%s)",
					chunk.Modality, chunk.Modality.MimeType())
			}
			parts = append(parts, openai.ChatCompletionContentPartUnionParam{
				OfImageURL: &openai.ChatCompletionContentPartImageParam{
					ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
						URL: blob.DataURI(),
					},
				},
			})
		}
	}
	return parts, nil
}

// MessageParam converts a message into the chat message union appropriate
// for its role. System messages are flattened to text; user and memory
// messages carry full content parts; AI messages become assistant text.
func MessageParam(m *message.Message) (openai.ChatCompletionMessageParamUnion, error) {
	switch m.Role() {
	case message.RoleSystem:
		return openai.SystemMessage(m.Text()), nil
	case message.RoleAI:
		return openai.AssistantMessage(m.Text()), nil
	default:
		parts, err := ContentParts(m)
		if err != nil {
			return openai.ChatCompletionMessageParamUnion{}, err
		}
		return openai.ChatCompletionMessageParamUnion{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: parts,
				},
			},
		}, nil
	}
}

// History converts a message's source chain (chronological order) into chat
// messages.
func History(m *message.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	chain := m.Trace("")
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(chain))
	for _, cm := range chain {
		param, err := MessageParam(cm)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, param)
	}
	return msgs, nil
}

// FromCompletion wraps a chat completion into an AI message whose source is
// the prompt that produced it. The prompt is tagged lm-input, the result
// lm-response, and token usage is recorded under usage.* metadata paths.
func FromCompletion(completion *openai.ChatCompletion, prompt *message.Message) (*message.Message, error) {
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai: completion has no choices")
	}
	if prompt != nil {
		prompt.Tag(message.TagLMInput)
	}
	m := message.NewAI(completion.Choices[0].Message.Content, func(o *message.Options) {
		o.Source = prompt
	})
	m.Tag(message.TagLMResponse)
	if err := m.Set("usage.prompt_tokens", completion.Usage.PromptTokens); err != nil {
		return nil, err
	}
	if err := m.Set("usage.completion_tokens", completion.Usage.CompletionTokens); err != nil {
		return nil, err
	}
	if err := m.Set("usage.total_tokens", completion.Usage.TotalTokens); err != nil {
		return nil, err
	}
	return m, nil
}
