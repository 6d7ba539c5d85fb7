package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	RulesPromptName = "referee_rules"
	RulesURI        = "rps://rules"
)

// RulesText is the short rules summary a referee reads out before round one.
const RulesText = `Rock-Paper-Scissors-Bomb, best of 3 rounds. First to 2 round wins takes the match.
Moves: rock, paper, scissors, bomb. Rock beats scissors, scissors beats paper, paper beats rock.
Bomb beats everything else; bomb against bomb is a draw.
Each side may play bomb once per match. Reusing it, or any unrecognized move, wastes the round and gives it to the bot.
After three rounds the player with more round wins takes the match; equal scores are a draw.`

const refereeInstructions = `You are the referee for a game of Rock-Paper-Scissors-Bomb between the user and a bot.

Rules to explain in at most five lines when the game starts:
` + RulesText + `

Run the game only through the tools:
- play_round with the user's move, exactly as they typed it.
- get_game_state to check the score or whether the match is over.
- reset_game_state when the user wants a new game.
Never decide a round yourself.

Announce every round in this format:
📍 Round X
- Your move: <user move>
- Bot move: <bot move, or "none" for a wasted round>
- Result: <explanation from play_round>
- Score: You <user score> - <bot score> Bot

When game_over is true, announce the final result (you win, bot wins, or draw) and offer a rematch.`

// RulesPrompt defines the MCP prompt carrying the referee instructions.
func RulesPrompt() *mcp.Prompt {
	return &mcp.Prompt{
		Name:        RulesPromptName,
		Description: "Instructions for refereeing Rock-Paper-Scissors-Bomb with the game tools.",
	}
}

func rulesPromptHandler(ctx context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Rock-Paper-Scissors-Bomb referee instructions",
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: refereeInstructions}},
		},
	}, nil
}

// RulesResource defines the static rules resource.
func RulesResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "rules",
		Description: "Rock-Paper-Scissors-Bomb rules summary",
		MIMEType:    "text/plain",
		URI:         RulesURI,
	}
}

func rulesResourceHandler(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: RulesURI, MIMEType: "text/plain", Text: RulesText},
		},
	}, nil
}
