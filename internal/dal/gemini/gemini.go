package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
)

// Client asks a generative model to describe a product photo.
type Client struct {
	client *genai.Client
	model  string
}

// MustNewClient creates a Gemini client from GEMINI_API_KEY.
func MustNewClient() *Client {
	client, err := genai.NewClient(
		context.Background(),
		option.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create gemini client: %v", err))
	}

	model := viper.GetString("gemini.model")
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}

	return &Client{
		client: client,
		model:  model,
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// DescribeImage sends the image and prompt to the model and returns the raw
// text of the first candidate.
func (c *Client) DescribeImage(
	ctx context.Context,
	mimeType string,
	data []byte,
	prompt string,
) (string, error) {
	format := strings.TrimPrefix(mimeType, "image/")

	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx,
		genai.ImageData(format, data),
		genai.Text(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return sb.String(), nil
}
