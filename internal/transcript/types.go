// Package transcript parses course transcript documents into Course records
// and overlapping text chunks suitable for retrieval indexing.
package transcript

// Course holds the metadata parsed from a transcript header plus its lessons.
// Courses are identified by title across the whole system; a course is
// immutable once ingested.
type Course struct {
	Title      string
	Link       string
	Instructor string
	Lessons    []Lesson
}

// Lesson is a single lesson within a course. Number is unique within the
// course. Offset is the byte offset in the raw document where the lesson's
// content begins. Link is optional and present only when the document carries
// a "Lesson Link:" line after the marker.
type Lesson struct {
	Number int
	Title  string
	Link   string
	Offset int
}

// Chunk is a bounded, overlapping segment of transcript text, the unit of
// semantic search. LessonNumber is nil for chunks taken from text before the
// first lesson marker. Index is monotonic per course across all lessons.
type Chunk struct {
	CourseTitle  string
	LessonNumber *int
	Index        int
	Text         string
}
