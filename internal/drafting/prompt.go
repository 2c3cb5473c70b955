package drafting

import (
	"fmt"
	"strings"

	"github.com/abhisek/ivrit/internal/level"
)

const systemPrompt = `You are a Hebrew teacher writing sentence cards for a puzzle game. Learners rebuild each sentence from word cards.

Rules:
- Write natural modern Hebrew in uiDisplayTitle without vowel points.
- Put the translation of the whole sentence in translationPrompt, in the requested language.
- taskTargetCards lists the words that become blanks. Every target must be a whole word of uiDisplayTitle exactly as written, including prefixes.
- ASSEMBLE_TRANSLATION and AUDITION: target every word of the sentence.
- FILL_IN_BLANK: write ___ in uiDisplayTitle where each target goes, one marker per target, in order.
- QUIZ, MAKE_QUESTION and MAKE_ANSWER: correctOptions holds the answer words in order; taskTargetCards is a subset of it; gamePrompt holds the question.
- CONJUGATION: taskPairs rows are [pronoun, verb form]; taskTargetCards lists the verb forms.
- MATCHING_PAIRS: taskPairs rows are [hebrew word, translation]; uiDisplayTitle names the topic.
- distractorOptions are plausible wrong words, at most three.
- Do not repeat any sentence from the "already in the course" list.`

// languageNames maps UI locales to the language of translations.
var languageNames = map[string]string{
	"ru": "Russian",
	"en": "English",
	"fr": "French",
	"es": "Spanish",
}

// buildUserMessage constructs the user message for a draft request.
func buildUserMessage(req Request, prior []string, cfg Config) string {
	lang, ok := languageNames[req.Locale]
	if !ok {
		lang = languageNames["ru"]
	}
	types := req.TaskTypes
	if len(types) == 0 {
		types = []level.TaskType{level.TaskAssembleTranslation}
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Sentences: %d\n", req.Count)
	fmt.Fprintf(&b, "Task types (cycle through them): %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Translation language: %s\n", lang)

	b.WriteString("\nAlready in the course:\n")
	b.WriteString(buildDedup(prior, cfg.MaxPriorSentences))
	return b.String()
}

// buildDedup formats prior sentences, keeping the most recent max.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}
	var b strings.Builder
	for i, s := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return strings.TrimRight(b.String(), "\n")
}
