package fixture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"diagtest/internal/domain"
)

const (
	// SectionMarker opens a new section when it is alone on a line
	SectionMarker = "/*"
	// AnnotationPrefix starts every expected-diagnostic line
	AnnotationPrefix = " * "
	// NoErrorSentinel is the annotation meaning no diagnostics are expected
	NoErrorSentinel = "No error"
)

var templateHeader = regexp.MustCompile(`^/\*\s*Template:(.*)\*/`)

// TemplateResolver supplies the boilerplate wrapped around each case
type TemplateResolver interface {
	Resolve(name string) (domain.Template, error)
}

// Fixture is a parsed fixture file
type Fixture struct {
	Path         string
	TemplateName string
	Cases        []*domain.TestCase
}

type state int

const (
	stateIdle state = iota
	stateInSection
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateInSection:
		return "in-section"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Parser splits fixtures into test cases. Ordinals come from a counter
// owned by the parser, so two parsers never share numbering.
type Parser struct {
	resolver        TemplateResolver
	defaultTemplate string
	ordinal         int

	state    state
	current  *domain.TestCase
	template *domain.Template
}

// NewParser creates a Parser. defaultTemplate is used when a fixture has
// no template header.
func NewParser(resolver TemplateResolver, defaultTemplate string) *Parser {
	return &Parser{
		resolver:        resolver,
		defaultTemplate: defaultTemplate,
	}
}

// ParseFile parses the fixture at path
func (p *Parser) ParseFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return p.Parse(file, path)
}

// Parse splits the fixture stream into cases in a single forward pass.
// name prefixes every case name and its extension selects the language.
func (p *Parser) Parse(r io.Reader, name string) (*Fixture, error) {
	p.state = stateIdle
	p.current = nil
	p.template = nil

	fixture := &Fixture{Path: name, TemplateName: p.defaultTemplate}
	reader := bufio.NewReader(r)

	first, err := readLine(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fixture, nil
		}
		return nil, fmt.Errorf("error reading fixture %s: %w", name, err)
	}
	if m := templateHeader.FindStringSubmatch(first); m != nil {
		fixture.TemplateName = strings.TrimSpace(m[1])
	}

	ext := filepath.Ext(name)
	for {
		line, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading fixture %s: %w", name, err)
		}

		if line == SectionMarker {
			p.finish(fixture)
			if err := p.open(fixture, ext); err != nil {
				return nil, err
			}
		} else if p.state == stateIdle {
			continue
		} else if strings.HasPrefix(line, AnnotationPrefix) {
			if line != AnnotationPrefix+NoErrorSentinel {
				p.current.AddError(line[len(AnnotationPrefix):])
			}
		}

		p.current.AddSource(line)
	}

	p.finish(fixture)
	return fixture, nil
}

// open starts a new section, resolving the template on first use
func (p *Parser) open(fixture *Fixture, ext string) error {
	if p.template == nil {
		tmpl, err := p.resolver.Resolve(fixture.TemplateName)
		if err != nil {
			return fmt.Errorf("fixture %s: %w", fixture.Path, err)
		}
		p.template = &tmpl
	}

	name := fmt.Sprintf("%s section %d", fixture.Path, p.ordinal)
	p.current = domain.NewTestCase(p.ordinal, name, fixture.Path, ext, *p.template)
	p.ordinal++
	p.state = stateInSection
	return nil
}

// finish closes the open section, if any
func (p *Parser) finish(fixture *Fixture) {
	if p.state != stateInSection {
		return
	}
	p.current.Finalize(p.template.Tail)
	fixture.Cases = append(fixture.Cases, p.current)
	p.current = nil
	p.state = stateIdle
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned before io.EOF.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
