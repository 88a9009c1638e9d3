package transcript

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parse failures that cause a document to be skipped during ingestion.
var (
	ErrMalformedHeader = errors.New("transcript header is malformed")
	ErrNoLessons       = errors.New("transcript contains no lesson markers")
)

const (
	titlePrefix      = "Course Title:"
	linkPrefix       = "Course Link:"
	instructorPrefix = "Course Instructor:"
	lessonLinkPrefix = "Lesson Link:"
)

var lessonMarker = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.*)$`)

// Parser converts raw transcript documents into a Course record plus its
// chunk sequence.
//
// The expected document shape is three fixed header lines (title, link,
// instructor) followed by lesson sections introduced by "Lesson N: Title"
// marker lines. An optional "Lesson Link: <url>" line may directly follow a
// marker.
type Parser struct {
	splitter *Splitter
}

// NewParser creates a Parser chunking with the given splitter.
func NewParser(splitter *Splitter) *Parser {
	if splitter == nil {
		splitter = NewSplitter(DefaultMaxChars, DefaultOverlap)
	}
	return &Parser{splitter: splitter}
}

// Parse produces one Course record and its full chunk sequence from raw
// document text. A malformed header or a document without lesson markers
// returns ErrMalformedHeader / ErrNoLessons; callers are expected to skip
// the document and continue with the rest of the corpus.
func (p *Parser) Parse(raw string) (*Course, []Chunk, error) {
	lines := strings.Split(raw, "\n")
	if len(lines) < 3 {
		return nil, nil, fmt.Errorf("%w: expected at least 3 header lines, got %d", ErrMalformedHeader, len(lines))
	}

	course := &Course{}
	var ok bool
	if course.Title, ok = headerValue(lines[0], titlePrefix); !ok {
		return nil, nil, fmt.Errorf("%w: first line must start with %q", ErrMalformedHeader, titlePrefix)
	}
	if course.Link, ok = headerValue(lines[1], linkPrefix); !ok {
		return nil, nil, fmt.Errorf("%w: second line must start with %q", ErrMalformedHeader, linkPrefix)
	}
	if course.Instructor, ok = headerValue(lines[2], instructorPrefix); !ok {
		return nil, nil, fmt.Errorf("%w: third line must start with %q", ErrMalformedHeader, instructorPrefix)
	}
	if course.Title == "" {
		return nil, nil, fmt.Errorf("%w: course title is empty", ErrMalformedHeader)
	}

	sections, err := splitLessons(lines, course)
	if err != nil {
		return nil, nil, err
	}

	var chunks []Chunk
	index := 0
	for _, section := range sections {
		for _, text := range p.splitter.Split(section.text) {
			chunks = append(chunks, Chunk{
				CourseTitle:  course.Title,
				LessonNumber: section.lesson,
				Index:        index,
				Text:         text,
			})
			index++
		}
	}
	return course, chunks, nil
}

// section is a contiguous run of lesson (or preamble) text awaiting chunking.
type section struct {
	lesson *int // nil for preamble text before the first lesson marker
	text   string
}

func splitLessons(lines []string, course *Course) ([]section, error) {
	var sections []section
	var current []string
	var currentLesson *int

	offset := len(lines[0]) + len(lines[1]) + len(lines[2]) + 3
	flush := func() {
		text := strings.TrimSpace(strings.Join(current, "\n"))
		if text != "" {
			sections = append(sections, section{lesson: currentLesson, text: text})
		}
		current = nil
	}

	body := lines[3:]
	for i := 0; i < len(body); i++ {
		line := body[i]
		match := lessonMarker.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			current = append(current, line)
			offset += len(line) + 1
			continue
		}

		flush()
		number, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("invalid lesson number %q: %w", match[1], err)
		}
		offset += len(line) + 1

		lesson := Lesson{Number: number, Title: strings.TrimSpace(match[2])}
		if i+1 < len(body) {
			if link, ok := headerValue(body[i+1], lessonLinkPrefix); ok {
				lesson.Link = link
				offset += len(body[i+1]) + 1
				i++
			}
		}
		lesson.Offset = offset
		course.Lessons = append(course.Lessons, lesson)

		n := number
		currentLesson = &n
	}
	flush()

	if len(course.Lessons) == 0 {
		return nil, ErrNoLessons
	}
	return sections, nil
}

func headerValue(line, prefix string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, prefix)), true
}
