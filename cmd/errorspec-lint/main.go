package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-errorspec/pkg/model"
	"github.com/goliatone/go-errorspec/pkg/traits"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [models...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint Smithy JSON AST models for invalid error and example traits.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	registry := traits.DefaultRegistry()
	var violations []violation
	for _, path := range paths {
		linted, err := lintFile(registry, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sortViolations(violations)
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

func lintFile(registry *traits.Registry, path string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	m, err := model.Parse(raw)
	if err != nil {
		return nil, err
	}
	return lintModel(registry, path, m), nil
}

func lintModel(registry *traits.Registry, file string, m *model.Model) []violation {
	var result []violation
	for _, err := range flatten(traits.Validate(m, registry)) {
		result = append(result, violation{file: file, location: "traits", message: err.Error()})
	}

	for _, shape := range m.Shapes() {
		result = append(result, lintErrorExamples(registry, file, shape)...)
		for _, member := range shape.Members {
			result = append(result, lintConst(registry, file, member)...)
		}
	}
	return result
}

func lintErrorExamples(registry *traits.Registry, file string, shape *model.Shape) []violation {
	examples, ok, err := traits.ErrorExampleOf(registry, shape)
	if err != nil || !ok {
		return nil
	}

	var result []violation
	base := []string{shape.ID.String()}
	if !shape.HasTrait(traits.ErrorID) {
		result = append(result, violation{
			file:     file,
			location: formatLocation(base),
			message:  "errorExample is only wired for shapes carrying the error trait",
		})
	}

	for i, entry := range examples.Examples() {
		location := formatLocation(appendPath(base, fmt.Sprintf("errorExample[%d]", i)))
		keys := make([]string, 0, len(entry.Content()))
		for key := range entry.Content() {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, ok := shape.MemberByName(key); ok {
				continue
			}
			result = append(result, violation{
				file:     file,
				location: location,
				message:  fmt.Sprintf("content key %q is not a member of %s", key, shape.ID),
			})
		}
	}
	return result
}

func lintConst(registry *traits.Registry, file string, member *model.Member) []violation {
	constTrait, ok, err := traits.ConstOf(registry, member)
	if err != nil || !ok || !constTrait.IsMarker() {
		return nil
	}
	if _, hasDefault, err := traits.DefaultOf(registry, member); err == nil && hasDefault {
		return nil
	}
	return []violation{{
		file:     file,
		location: member.ID.String(),
		message:  "const marker has no default to resolve",
	}}
}

// flatten splits an errors.Join result into its parts.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}

func sortViolations(violations []violation) {
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	next = append(next, segment)
	return next
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
