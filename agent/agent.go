// Package agent implements a small interactive assistant that answers
// questions about the current allocation report using Gemini.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

const systemPrompt = `You are a portfolio allocation assistant. The user runs
a tool that compares their brokerage holdings against a target allocation.
Answer questions about the report below: categories over or under target,
which positions drive the deviation, and what the reserved cash carve-out
means. Do not give trade or investment advice beyond restating the report's
own ideal/actual/needed figures. The report:

`

// Agent is the assistant chat session over an allocation report.
type Agent struct {
	w    io.Writer
	r    *bufio.Reader
	chat *genai.Chat
}

// New creates an Agent reading user input from r and writing to w.
func New(w io.Writer, r io.Reader) *Agent {
	return &Agent{w: w, r: bufio.NewReader(r)}
}

// Start creates the Gemini chat, seeding the system instruction with the
// rendered report markdown.
func (a *Agent) Start(ctx context.Context, client *genai.Client, report string) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt + report}}},
	}
	chat, err := client.Chats.Create(ctx, model, config, nil)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

const prompt = "assist> "

// Run starts the interactive REPL session. Initial prompts, if any, are
// answered before reading from the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, report string, prompts ...string) error {
	if a.chat == nil {
		if err := a.Start(ctx, client, report); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to rbl assist. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush initial prompts first, then ask the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		answer, err := a.ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}

// ask sends one message and returns the text of the first candidate.
func (a *Agent) ask(ctx context.Context, input string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: input})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the assistant")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
