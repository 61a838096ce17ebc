package mock

import (
	"context"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/prompt"
)

const ModelID = "mock-model"

const (
	ResponsePlot      = "plot"
	ResponseDataFrame = "dataframe"
	ResponseMerge     = "merge"
	ResponseDefault   = "default"
)

var Responses = map[string]string{
	ResponsePlot: "```python\nimport matplotlib.pyplot as plt\nimport numpy as np\n\n# Create sample data\nx = np.linspace(0, 10, 100)\ny = np.sin(x)\n\n# Create plot\nplt.figure(figsize=(10, 6))\nplt.plot(x, y)\nplt.title('Sample Plot')\nplt.xlabel('X')\nplt.ylabel('Y')\nplt.grid(True)\nplt.show()\n```",

	ResponseDataFrame: "```python\nimport pandas as pd\n\n# Create sample DataFrame\ndata = {\n    'name': ['Alice', 'Bob', 'Charlie'],\n    'age': [25, 30, 35],\n    'city': ['New York', 'London', 'Tokyo']\n}\ndf = pd.DataFrame(data)\nprint(df)\n```",

	ResponseMerge: "```python\n# Merge two DataFrames on common column\nresult = pd.merge(df1, df2, on='id')\n\n# Left join\nresult = pd.merge(df1, df2, on='id', how='left')\n\n# Outer join\nresult = pd.merge(df1, df2, on='id', how='outer')\n```",

	ResponseDefault: "```python\n# Data Science template\nimport pandas as pd\nimport numpy as np\nimport matplotlib.pyplot as plt\n\n# Your code here\nprint('Hello Data Science!')\n```",
}

type rule struct {
	response string
	keywords []string
}

// rules are checked in order, the first rule with a matching keyword wins.
var rules = []rule{
	{response: ResponsePlot, keywords: []string{"plot", "graph", "chart", "visualize"}},
	{response: ResponseDataFrame, keywords: []string{"dataframe", "df", "table"}},
	{response: ResponseMerge, keywords: []string{"merge", "join", "combine"}},
}

// Client is a stand-in backend that answers with canned snippets chosen by keyword.
type Client struct {
	delay time.Duration
}

func NewClient(delay time.Duration) *Client {
	return &Client{delay: delay}
}

func (c *Client) Model() string {
	return ModelID
}

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return &llm.LLMResponse{
		Content:    Responses[Select(prompt.TaskOf(request.Prompt))],
		StopReason: "end_turn",
	}, nil
}

func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return c.InvokeModel(ctx, request)
}

// Select returns the canned response key for a question.
func Select(question string) string {
	question = strings.ToLower(question)
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(question, keyword) {
				return r.response
			}
		}
	}
	return ResponseDefault
}
