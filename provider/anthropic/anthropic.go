// Package anthropic converts between msgflow messages and the Anthropic
// Messages API content format. It adapts chunked messages (text + modality
// segments) into content blocks and wraps API responses back into tagged AI
// messages whose source points at the prompt.
package anthropic

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/msgflow/message"
	"github.com/hupe1980/msgflow/modality"
)

// ContentBlocks converts a chunked message into content block unions. Text
// chunks become text blocks; image blobs become base64 image blocks. Blobs
// without inlined payloads cannot be converted since the Messages API
// expects encoded data.
func ContentBlocks(m *message.Message) ([]anthropic.ContentBlockParamUnion, error) {
	var blocks []anthropic.ContentBlockParamUnion
	for _, c := range m.Chunk() {
		switch chunk := c.(type) {
		case message.TextChunk:
			blocks = append(blocks, anthropic.NewTextBlock(chunk.Text))
		case message.ModalityChunk:
			blob, ok := chunk.Modality.(*modality.Blob)
			if !ok || !blob.IsImage() {
				return nil, fmt.Errorf("anthropic: unsupported modality %T (%s)",
					chunk.Modality, chunk.Modality.MimeType())
			}
			if !blob.Inlined() {
				return nil, fmt.Errorf("anthropic: blob %q has no inline payload", blob.ReferredName())
			}
			blocks = append(blocks, anthropic.NewImageBlockBase64(blob.Mime, blob.Base64()))
		}
	}
	return blocks, nil
}

// MessageParam converts a message into a Messages API message param. System
// messages are rejected; the Messages API carries system text separately
// (see History).
func MessageParam(m *message.Message) (anthropic.MessageParam, error) {
	if m.FromSystem() {
		return anthropic.MessageParam{}, fmt.Errorf("anthropic: system messages are passed separately")
	}
	blocks, err := ContentBlocks(m)
	if err != nil {
		return anthropic.MessageParam{}, err
	}
	if m.FromAgent() {
		return anthropic.NewAssistantMessage(blocks...), nil
	}
	return anthropic.NewUserMessage(blocks...), nil
}

// History converts a message's source chain (chronological order) into
// Messages API params, extracting system messages into separate text blocks
// as the API requires.
func History(m *message.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam, error) {
	var (
		msgs   []anthropic.MessageParam
		system []anthropic.TextBlockParam
	)
	for _, cm := range m.Trace("") {
		if cm.FromSystem() {
			if cm.Text() != "" {
				system = append(system, anthropic.TextBlockParam{Text: cm.Text()})
			}
			continue
		}
		param, err := MessageParam(cm)
		if err != nil {
			return nil, nil, err
		}
		msgs = append(msgs, param)
	}
	return msgs, system, nil
}

// FromMessage wraps a Messages API response into an AI message whose source
// is the prompt that produced it. The prompt is tagged lm-input, the result
// lm-response, and token usage is recorded under usage.* metadata paths.
func FromMessage(resp *anthropic.Message, prompt *message.Message) (*message.Message, error) {
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if prompt != nil {
		prompt.Tag(message.TagLMInput)
	}
	m := message.NewAI(text.String(), func(o *message.Options) {
		o.Source = prompt
	})
	m.Tag(message.TagLMResponse)
	if err := m.Set("usage.input_tokens", resp.Usage.InputTokens); err != nil {
		return nil, err
	}
	if err := m.Set("usage.output_tokens", resp.Usage.OutputTokens); err != nil {
		return nil, err
	}
	return m, nil
}
