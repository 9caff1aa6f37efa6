// Package schemas embeds the JSON Schemas that describe the analyzer's external documents.
package schemas

import "embed"

// Schema file names
const (
	AnalysisResult  = "analysis_result.schema.json"
	UserProfile     = "user_profile.schema.json"
	AnalysisRequest = "analysis_request.schema.json"
)

// FS holds every *.schema.json file in this directory
//
//go:embed *.schema.json
var FS embed.FS
