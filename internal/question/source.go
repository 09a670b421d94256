// Package question picks the daily discussion question for a group.
package question

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fkhayef/checkin/internal/localtime"
)

// maxQuestionLength keeps a question inside one SMS segment with room for the group name
const maxQuestionLength = 200

const systemPrompt = "You write one short, warm discussion question for a small group of friends " +
	"who check in with each other daily. Reply with the question only."

// fallbackQuestions are used when no LLM is configured or the call fails
var fallbackQuestions = []string{
	"What is one small thing that made you smile today?",
	"What are you looking forward to this week?",
	"What is something you learned recently?",
	"Who is someone you are grateful for right now, and why?",
	"What does a perfect lazy Sunday look like for you?",
	"What is a song you have had on repeat lately?",
	"What is one thing you want to do differently tomorrow?",
	"What is the best thing you ate this week?",
	"What is a goal you are quietly working on?",
	"What made today harder or easier than yesterday?",
}

// Completer is a chat-completion backend
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Group is the part of a group the question depends on
type Group struct {
	ID     uuid.UUID
	Name   string
	Prompt string
}

// Source produces questions, preferring the LLM and falling back to a fixed bank
type Source struct {
	llm    Completer
	logger *zap.Logger
}

// NewSource creates a question source. llm may be nil.
func NewSource(llm Completer, logger *zap.Logger) *Source {
	return &Source{llm: llm, logger: logger}
}

// Question returns the question for group g on date d. It never fails.
func (s *Source) Question(ctx context.Context, g Group, d localtime.Date) string {
	if s.llm != nil {
		text, err := s.llm.Complete(ctx, systemPrompt, userPrompt(g))
		if err == nil {
			if q := clean(text); q != "" {
				return q
			}
		} else {
			s.logger.Warn("question generation failed, using fallback",
				zap.String("group_id", g.ID.String()),
				zap.Error(err))
		}
	}
	return Fallback(g.ID, d)
}

// Fallback deterministically picks a bank question for the group and date
func Fallback(groupID uuid.UUID, d localtime.Date) string {
	h := fnv.New32a()
	_, _ = h.Write(groupID[:])
	_, _ = h.Write([]byte(d.String()))
	return fallbackQuestions[h.Sum32()%uint32(len(fallbackQuestions))]
}

func userPrompt(g Group) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Group name: %s\n", g.Name)
	if p := strings.TrimSpace(g.Prompt); p != "" {
		fmt.Fprintf(&b, "The group describes what it wants to talk about as: %s\n", p)
	}
	b.WriteString("Write today's question.")
	return b.String()
}

func clean(text string) string {
	q := strings.TrimSpace(text)
	q = strings.Trim(q, "\"'")
	if i := strings.IndexByte(q, '\n'); i >= 0 {
		q = strings.TrimSpace(q[:i])
	}
	if len(q) > maxQuestionLength {
		return ""
	}
	return q
}
