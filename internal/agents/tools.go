package agents

// ToolDef declares one callable tool in the shape the realtime API expects
// for function declarations. The gateway dispatcher is the other half of the
// contract: every name declared here must have a dispatch arm there.
type ToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

const (
	ToolSwitchAgent = "switch_agent"
	ToolListDecks   = "list_decks"
	ToolGetNextCard = "get_next_card"
	ToolRateCard    = "rate_card"
	ToolPeekScreen  = "peek_screen"
)

var starterTools = []ToolDef{
	{
		Name:        ToolSwitchAgent,
		Description: "Hand the conversation to another agent persona.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"agent": map[string]any{
					"type": "string",
					"enum": []string{"learn", "study"},
				},
			},
			"required": []string{"agent"},
		},
	},
	{
		Name:        ToolListDecks,
		Description: "List the learner's decks with card counts.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}

var tutorTools = []ToolDef{
	{
		Name:        ToolGetNextCard,
		Description: "Fetch the next card to present, never repeating the previous one.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"deck_id": map[string]any{"type": "string"},
			},
			"required": []string{"deck_id"},
		},
	},
	{
		Name:        ToolRateCard,
		Description: "Record the learner's self-assessment for a card.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"card_id": map[string]any{"type": "string"},
				"rating": map[string]any{
					"type": "string",
					"enum": []string{"again", "hard", "good", "easy"},
				},
			},
			"required": []string{"card_id", "rating"},
		},
	},
	{
		Name:        ToolPeekScreen,
		Description: "Look at the most recent frame of the learner's shared screen or camera.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}
