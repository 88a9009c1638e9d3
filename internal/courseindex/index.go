// Package courseindex implements the two-tier vector index over course
// material: a catalog collection for fuzzy course-name resolution and a
// content collection for filtered passage search.
package courseindex

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lewisedginton/course_materials_chatbot/internal/transcript"
	"github.com/lewisedginton/course_materials_chatbot/internal/vectorstore"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
)

// ErrCourseNotFound is returned when a fuzzy course-name lookup finds no
// catalog entry above the relevance threshold. It is distinct from a search
// that runs and matches zero chunks.
var ErrCourseNotFound = errors.New("course not found")

const (
	catalogCollection = "course_catalog"
	contentCollection = "course_content"

	metaCourseTitle  = "course_title"
	metaLessonNumber = "lesson_number"
	metaLessonLink   = "lesson_link"
	metaChunkIndex   = "chunk_index"
)

// DefaultTopK bounds content search results when the caller does not say
// otherwise.
const DefaultTopK = 5

// Config configures an Index.
type Config struct {
	Store vectorstore.Store
	// MinScore is the similarity floor for fuzzy course resolution.
	MinScore float64
	// TopK is the default content-search result bound.
	TopK   int
	Logger logger.Logger
}

// ContentResult is one matched chunk with its provenance.
type ContentResult struct {
	Text         string
	CourseTitle  string
	LessonNumber *int
	LessonLink   string
	ChunkIndex   int
	Score        float64
}

// Index wraps the vector store with course-aware semantics: idempotent
// per-course ingestion, fuzzy course resolution against the catalog, and
// filtered content search. Writes happen during the exclusive ingestion
// phase; all query paths are safe for concurrent use.
type Index struct {
	store    vectorstore.Store
	minScore float64
	topK     int
	log      logger.Logger

	mu      sync.RWMutex
	courses map[string]transcript.Course
}

// New creates an Index.
func New(cfg Config) (*Index, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("vector store is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}

	return &Index{
		store:    cfg.Store,
		minScore: cfg.MinScore,
		topK:     cfg.TopK,
		log:      cfg.Logger,
		courses:  make(map[string]transcript.Course),
	}, nil
}

// AddCourse indexes a course and its chunks. Re-adding a course with the
// same title replaces its previous catalog and content entries.
func (x *Index) AddCourse(ctx context.Context, course *transcript.Course, chunks []transcript.Chunk) error {
	if course == nil || course.Title == "" {
		return fmt.Errorf("course with a title is required")
	}

	filter := map[string]string{metaCourseTitle: course.Title}
	if err := x.store.Delete(ctx, catalogCollection, filter); err != nil {
		return fmt.Errorf("failed to clear catalog entry for %q: %w", course.Title, err)
	}
	if err := x.store.Delete(ctx, contentCollection, filter); err != nil {
		return fmt.Errorf("failed to clear content entries for %q: %w", course.Title, err)
	}

	catalog := vectorstore.Entry{
		ID:   course.Title,
		Text: catalogKey(course),
		Metadata: map[string]string{
			metaCourseTitle: course.Title,
		},
	}
	if err := x.store.Upsert(ctx, catalogCollection, []vectorstore.Entry{catalog}); err != nil {
		return fmt.Errorf("failed to index catalog entry for %q: %w", course.Title, err)
	}

	lessonLinks := make(map[int]string, len(course.Lessons))
	for _, lesson := range course.Lessons {
		lessonLinks[lesson.Number] = lesson.Link
	}

	entries := make([]vectorstore.Entry, 0, len(chunks))
	for _, chunk := range chunks {
		metadata := map[string]string{
			metaCourseTitle: chunk.CourseTitle,
			metaChunkIndex:  strconv.Itoa(chunk.Index),
		}
		if chunk.LessonNumber != nil {
			metadata[metaLessonNumber] = strconv.Itoa(*chunk.LessonNumber)
			if link := lessonLinks[*chunk.LessonNumber]; link != "" {
				metadata[metaLessonLink] = link
			}
		}
		entries = append(entries, vectorstore.Entry{
			ID:       fmt.Sprintf("%s#%d", chunk.CourseTitle, chunk.Index),
			Text:     chunk.Text,
			Metadata: metadata,
		})
	}
	if err := x.store.Upsert(ctx, contentCollection, entries); err != nil {
		return fmt.Errorf("failed to index %d chunks for %q: %w", len(entries), course.Title, err)
	}

	x.mu.Lock()
	x.courses[course.Title] = *course
	x.mu.Unlock()

	x.log.Info("Indexed course",
		logger.StringField("course", course.Title),
		logger.IntField("lessons", len(course.Lessons)),
		logger.IntField("chunks", len(chunks)))
	return nil
}

// ResolveCourse fuzzily matches a user-supplied course reference against the
// catalog and returns the exact course title. Candidates below the relevance
// threshold yield ErrCourseNotFound. Equidistant candidates resolve to the
// lexicographically smaller title.
func (x *Index) ResolveCourse(ctx context.Context, hint string) (string, error) {
	results, err := x.store.Query(ctx, catalogCollection, hint, nil, 5)
	if err != nil {
		return "", fmt.Errorf("catalog lookup for %q failed: %w", hint, err)
	}
	if len(results) == 0 || results[0].Score < x.minScore {
		return "", fmt.Errorf("%w: no course matching %q", ErrCourseNotFound, hint)
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Score == best.Score && r.Metadata[metaCourseTitle] < best.Metadata[metaCourseTitle] {
			best = r
		}
	}
	return best.Metadata[metaCourseTitle], nil
}

// SearchContent performs filtered semantic passage search. A non-empty
// courseTitle is resolved fuzzily first; failed resolution returns
// ErrCourseNotFound rather than falling back to an unfiltered search.
// Results are ordered by descending similarity, ties by ascending chunk
// index.
func (x *Index) SearchContent(ctx context.Context, query, courseTitle string, lessonNumber *int, topK int) ([]ContentResult, error) {
	if topK <= 0 {
		topK = x.topK
	}

	filter := map[string]string{}
	if courseTitle != "" {
		resolved, err := x.ResolveCourse(ctx, courseTitle)
		if err != nil {
			return nil, err
		}
		filter[metaCourseTitle] = resolved
	}
	if lessonNumber != nil {
		filter[metaLessonNumber] = strconv.Itoa(*lessonNumber)
	}

	raw, err := x.store.Query(ctx, contentCollection, query, filter, topK)
	if err != nil {
		return nil, fmt.Errorf("content search failed: %w", err)
	}

	results := make([]ContentResult, 0, len(raw))
	for _, r := range raw {
		result := ContentResult{
			Text:        r.Text,
			CourseTitle: r.Metadata[metaCourseTitle],
			LessonLink:  r.Metadata[metaLessonLink],
			Score:       r.Score,
		}
		if idx, err := strconv.Atoi(r.Metadata[metaChunkIndex]); err == nil {
			result.ChunkIndex = idx
		}
		if ln, ok := r.Metadata[metaLessonNumber]; ok {
			if n, err := strconv.Atoi(ln); err == nil {
				result.LessonNumber = &n
			}
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkIndex < results[j].ChunkIndex
	})
	return results, nil
}

// Outline returns the course record for a fuzzily-resolved course name.
func (x *Index) Outline(ctx context.Context, hint string) (*transcript.Course, error) {
	title, err := x.ResolveCourse(ctx, hint)
	if err != nil {
		return nil, err
	}

	x.mu.RLock()
	course, ok := x.courses[title]
	x.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: catalog entry %q has no course record", ErrCourseNotFound, title)
	}
	return &course, nil
}

// CourseCount returns the number of ingested courses.
func (x *Index) CourseCount() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.courses)
}

// CourseTitles returns the titles of all ingested courses, sorted.
func (x *Index) CourseTitles() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	titles := make([]string, 0, len(x.courses))
	for title := range x.courses {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// catalogKey is the embedding key for a catalog entry: title, instructor and
// all lesson titles concatenated.
func catalogKey(course *transcript.Course) string {
	parts := make([]string, 0, len(course.Lessons)+2)
	parts = append(parts, course.Title, course.Instructor)
	for _, lesson := range course.Lessons {
		parts = append(parts, lesson.Title)
	}
	return strings.Join(parts, " ")
}
