package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/ryo246912/branch-pr-template/internal/errors"
)

// Input names, as declared in action.yml.
const (
	InputRepoToken              = "repo-token"
	InputBranchRegex            = "branch-regex"
	InputLowercaseBranch        = "lowercase-branch"
	InputTitleTemplate          = "title-template"
	InputReplaceTitle           = "replace-title"
	InputTitlePrefixSpace       = "title-prefix-space"
	InputUppercaseTitle         = "uppercase-title"
	InputBodyTemplate           = "body-template"
	InputReplaceBody            = "replace-body"
	InputBodyPrefixNewlineCount = "body-prefix-newline-count"
	InputUppercaseBody          = "uppercase-body"
)

// Inputs lists every input name in declaration order.
var Inputs = []string{
	InputRepoToken,
	InputBranchRegex,
	InputLowercaseBranch,
	InputTitleTemplate,
	InputReplaceTitle,
	InputTitlePrefixSpace,
	InputUppercaseTitle,
	InputBodyTemplate,
	InputReplaceBody,
	InputBodyPrefixNewlineCount,
	InputUppercaseBody,
}

// Config holds the validated run parameters. It is built once by Load and
// not modified afterwards.
type Config struct {
	Token           string
	BranchRegex     *regexp.Regexp
	LowercaseBranch bool

	TitleTemplate    string
	ReplaceTitle     bool
	TitlePrefixSpace bool
	UppercaseTitle   bool

	BodyTemplate           string
	ReplaceBody            bool
	BodyPrefixNewlineCount int
	UppercaseBody          bool
}

// Load reads every input from src and validates it.
func Load(src Source) (*Config, error) {
	token, err := required(src, InputRepoToken)
	if err != nil {
		return nil, err
	}

	pattern, err := required(src, InputBranchRegex)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, apperrors.ErrInvalidRegex.WithError(err)
	}

	bodyTemplate, err := required(src, InputBodyTemplate)
	if err != nil {
		return nil, err
	}

	rawCount, err := required(src, InputBodyPrefixNewlineCount)
	if err != nil {
		return nil, err
	}
	count, err := ParseNewlineCount(rawCount)
	if err != nil {
		return nil, err
	}

	return &Config{
		Token:                  token,
		BranchRegex:            re,
		LowercaseBranch:        ParseBool(get(src, InputLowercaseBranch)),
		TitleTemplate:          get(src, InputTitleTemplate),
		ReplaceTitle:           ParseBool(get(src, InputReplaceTitle)),
		TitlePrefixSpace:       ParseBool(get(src, InputTitlePrefixSpace)),
		UppercaseTitle:         ParseBool(get(src, InputUppercaseTitle)),
		BodyTemplate:           bodyTemplate,
		ReplaceBody:            ParseBool(get(src, InputReplaceBody)),
		BodyPrefixNewlineCount: count,
		UppercaseBody:          ParseBool(get(src, InputUppercaseBody)),
	}, nil
}

// ParseBool reports whether s is "true", ignoring case. Any other value,
// including the empty string, is false.
func ParseBool(s string) bool {
	return strings.EqualFold(s, "true")
}

// ParseNewlineCount parses the body-prefix-newline-count input.
func ParseNewlineCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.ErrInvalidNewlineCount.WithError(err)
	}
	if n < 0 {
		return 0, apperrors.ErrInvalidNewlineCount.WithError(fmt.Errorf("got %d", n))
	}
	return n, nil
}

// get returns the trimmed value of an input, or "" if it is not set.
func get(src Source, name string) string {
	v, _ := src.Lookup(name)
	return strings.TrimSpace(v)
}

func required(src Source, name string) (string, error) {
	v := get(src, name)
	if v == "" {
		return "", apperrors.ErrMissingInput.WithContext("input", name)
	}
	return v, nil
}
