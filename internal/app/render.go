package app

import (
	"fmt"
	"strings"
	"time"

	"quizgate/internal/domain"
)

func questionMessage(q domain.Question, choices []string, deadline time.Time) domain.Message {
	var b strings.Builder
	b.WriteString(q.Prompt)
	b.WriteString("\n\n")
	for i, choice := range choices {
		fmt.Fprintf(&b, "%d: %s\n", i+1, choice)
	}
	return domain.Message{
		Kind:     domain.KindQuestion,
		Body:     b.String(),
		Choices:  choices,
		Deadline: deadline,
	}
}

func cooldownMessage(retryAt time.Time) domain.Message {
	return domain.Message{
		Kind:    domain.KindCooldown,
		Title:   "Cooldown active",
		Body:    "Try again later",
		RetryAt: retryAt,
	}
}

func failMessage(retryAt time.Time) domain.Message {
	return domain.Message{
		Kind:    domain.KindFailed,
		Title:   "Quiz failed",
		Body:    "Try again later",
		RetryAt: retryAt,
	}
}

func passMessage(granted bool) domain.Message {
	body := "Server access granted"
	if !granted {
		body = "However, an error occurred while trying to grant you access"
	}
	return domain.Message{
		Kind:  domain.KindPassed,
		Title: "Quiz passed",
		Body:  body,
	}
}
