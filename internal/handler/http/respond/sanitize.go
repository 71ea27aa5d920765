package respond

import "regexp"

// Order matters: the Anthropic pattern must run before the generic OpenAI one.
var (
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	dbPasswordPattern   = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
	discordHookPattern  = regexp.MustCompile(`(discord\.com/api/webhooks/\d+/)[A-Za-z0-9_-]+`)
	slackHookPattern    = regexp.MustCompile(`(hooks\.slack\.com/services/)[A-Za-z0-9/]+`)
)

// SanitizeError returns err's message with API keys, DSN passwords and
// webhook tokens masked, ready to be logged.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = discordHookPattern.ReplaceAllString(msg, "${1}****")
	msg = slackHookPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
