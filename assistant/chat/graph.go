package chat

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
)

const graphName = "chat.single_turn_graph"

// compileReplyGraph wires prompt -> model -> reply. The prompt holds exactly
// one user message; nothing from earlier turns is sent.
func compileReplyGraph(ctx context.Context, chatModel einomodel.BaseChatModel) (compose.Runnable[map[string]any, string], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage("{message}"),
	)

	graph := compose.NewGraph[map[string]any, string]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add chat prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add chat model node: %w", err)
	}
	if err := graph.AddLambdaNode("reply", compose.InvokableLambda(extractReply)); err != nil {
		return nil, fmt.Errorf("add chat reply node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add chat edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add chat edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "reply"); err != nil {
		return nil, fmt.Errorf("add chat edge model->reply: %w", err)
	}
	if err := graph.AddEdge("reply", compose.END); err != nil {
		return nil, fmt.Errorf("add chat edge reply->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile chat graph: %w", err)
	}
	return runner, nil
}

func extractReply(ctx context.Context, msg *schema.Message) (string, error) {
	if msg == nil {
		return "", fmt.Errorf("%w: empty model response", contractx.ErrResponseShape)
	}
	reply := strings.TrimSpace(msg.Content)
	if reply == "" {
		return "", fmt.Errorf("%w: model reply is empty", contractx.ErrResponseShape)
	}
	return msg.Content, nil
}
