package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"codeclub/config"

	"github.com/go-resty/resty/v2"
)

// GeneratedQuestion is one AI-produced quiz question
type GeneratedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateQuizQuestions asks the configured chat-completions endpoint for
// multiple-choice questions about a topic. Any failure (no API key, HTTP
// error, malformed JSON) falls back to synthesized placeholder questions
// so the authoring flow never blocks on the AI provider.
func GenerateQuizQuestions(topic string, count int) []GeneratedQuestion {
	if count < 1 {
		count = 5
	}

	if config.AppConfig.AIApiKey == "" {
		return fallbackQuestions(topic, count)
	}

	questions, err := requestQuestions(topic, count)
	if err != nil {
		log.Printf("[AI-QUIZ] Generation failed for topic %q: %v. Using fallback questions.", topic, err)
		return fallbackQuestions(topic, count)
	}

	return questions
}

func requestQuestions(topic string, count int) ([]GeneratedQuestion, error) {
	prompt := fmt.Sprintf(
		"Generate %d multiple-choice questions about %q. "+
			"Respond with ONLY a JSON array. Each item must have: "+
			"\"question\" (string), \"options\" (array of exactly 4 strings), "+
			"\"correct_answer\" (integer 0-3, index into options). No other text.",
		count, topic,
	)

	client := resty.New().SetTimeout(30 * time.Second)

	var result chatResponse
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+config.AppConfig.AIApiKey).
		SetBody(chatRequest{
			Model: config.AppConfig.AIModel,
			Messages: []chatMessage{
				{Role: "system", Content: "You are a quiz author for a programming learning platform."},
				{Role: "user", Content: prompt},
			},
			Temperature: 0.7,
		}).
		SetResult(&result).
		Post(config.AppConfig.AIApiURL)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ai api returned status %d", resp.StatusCode())
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("ai api returned no choices")
	}

	return ParseGeneratedQuestions(result.Choices[0].Message.Content)
}

// ParseGeneratedQuestions parses the model's reply into questions,
// tolerating markdown code fences around the JSON array. Questions that
// don't have exactly four options or a valid answer index are dropped.
func ParseGeneratedQuestions(content string) ([]GeneratedQuestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed []GeneratedQuestion
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parsing ai response: %w", err)
	}

	valid := make([]GeneratedQuestion, 0, len(parsed))
	for _, q := range parsed {
		if q.Question == "" || len(q.Options) != 4 {
			continue
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer > 3 {
			continue
		}
		valid = append(valid, q)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("ai response contained no usable questions")
	}

	return valid, nil
}

// fallbackQuestions synthesizes placeholder questions from the topic so
// admins can edit them instead of starting from nothing
func fallbackQuestions(topic string, count int) []GeneratedQuestion {
	questions := make([]GeneratedQuestion, count)
	for i := range questions {
		questions[i] = GeneratedQuestion{
			Question: fmt.Sprintf("Question %d about %s (edit me)", i+1, topic),
			Options: []string{
				fmt.Sprintf("Correct answer about %s", topic),
				"Wrong answer A",
				"Wrong answer B",
				"Wrong answer C",
			},
			CorrectAnswer: 0,
		}
	}
	return questions
}
