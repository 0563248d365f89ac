package llm

var (
	Conform           = conform
	BuildGeminiSchema = buildGeminiSchema
)
