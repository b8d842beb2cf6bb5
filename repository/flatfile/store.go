// Package flatfile persists the task list as plain text, one record per
// line in the form `<flag>;<text>`. The format carries no escaping: task
// text containing the separator survives a save but misparses on the next
// load, and an embedded newline would split a record in two. Accepted
// limitation for single-user, human-inspectable data. The file is also not
// locked, so two processes pointed at the same path will clobber each other.
package flatfile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/tasktrack/backend/domain"
	"github.com/tasktrack/backend/repository"
)

const separator = ";"

// Store reads and writes the line-oriented task file.
type Store struct {
	path string
}

// New returns a flat-file implementation of repository.TaskStore.
func New(path string) repository.TaskStore {
	return &Store{path: path}
}

// Load parses the backing file into a task list. A missing file is the
// normal first-run state and yields an empty list, not an error.
func (s *Store) Load(ctx context.Context) ([]domain.Task, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "open task file", err)
	}
	defer f.Close()

	// Records carry no length limit, so read line by line with no cap
	// instead of a bufio.Scanner and its token size ceiling.
	var tasks []domain.Task
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			tasks = append(tasks, parseRecord(line))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, domain.WrapError(domain.ErrCodeUnavailable, "read task file", err)
		}
	}
	return tasks, nil
}

// Save rewrites the whole file in list order. Rewriting everything on each
// mutation is a simplicity-over-efficiency choice; at this scale it is fine.
func (s *Store) Save(ctx context.Context, tasks []domain.Task) error {
	var buf bytes.Buffer
	for _, t := range tasks {
		flag := 0
		if t.Completed {
			flag = 1
		}
		fmt.Fprintf(&buf, "%d%s%s\n", flag, separator, t.Text)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "write task file", err)
	}
	return nil
}

// parseRecord decodes one line. Only the first separator is significant;
// a line without one is an uncompleted task whose text is the whole line.
// No line is fatal.
func parseRecord(line string) domain.Task {
	line = strings.TrimRight(line, "\r\n")
	task := domain.Task{ID: uuid.NewString()}
	if flag, text, ok := strings.Cut(line, separator); ok {
		task.Completed = leadingInt(flag) == 1
		task.Text = text
	} else {
		task.Text = line
	}
	return task
}

// leadingInt mirrors C atoi: skip leading whitespace, optional sign, then
// consume digits; anything unparseable is 0. The completion flag is true
// only when the parsed value equals 1.
func leadingInt(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	sign := 1
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		if s[i] == '-' {
			sign = -1
		}
		i++
	}
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return sign * n
}
