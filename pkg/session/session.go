// Package session drives an interval tree on behalf of an interactive user:
// it validates input, keeps the last search result and a message banner,
// and can undo mutations by rebuilding the tree from an earlier snapshot.
//
// A Session is not safe for concurrent use.
package session

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/anrid/intervaltree/pkg/endpoint"
	"github.com/anrid/intervaltree/pkg/interval"
	"github.com/anrid/intervaltree/pkg/logger"
)

// ErrNothingToUndo is returned by Undo when there is no earlier state.
var ErrNothingToUndo = errors.New("nothing to undo")

// Kind classifies a Message.
type Kind int

const (
	Info Kind = iota
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Message is the banner shown to the user after the last operation.
type Message struct {
	Kind Kind
	Text string
}

// Config controls a Session.
type Config struct {
	Balancing interval.Balancing
	// HistoryDepth bounds the number of undo snapshots. Zero disables undo.
	HistoryDepth int
	// IPEndpoints renders endpoints in messages as IPv4 addresses.
	IPEndpoints bool
}

// View is everything a presentation layer needs to draw the current state.
type View struct {
	Intervals []interval.Interval
	Height    int
	Size      int
	Balancing interval.Balancing
	Result    *interval.Interval
	Message   Message
}

// Session owns one interval tree and the state shown around it.
type Session struct {
	cfg     Config
	log     logger.Logger
	tree    *interval.Tree
	history [][]interval.Interval
	result  *interval.Interval
	message Message
}

// New returns a session with an empty tree.
func New(cfg Config, log logger.Logger) *Session {
	return &Session{
		cfg:  cfg,
		log:  log.With("session"),
		tree: interval.NewIntervalTree(interval.WithBalancing(cfg.Balancing)),
	}
}

// Tree exposes the underlying tree for read access.
func (s *Session) Tree() *interval.Tree {
	return s.tree
}

// Message returns the banner of the last operation.
func (s *Session) Message() Message {
	return s.message
}

// Result returns the interval found by the last successful Search, or nil.
func (s *Session) Result() *interval.Interval {
	return s.result
}

// View snapshots the current state.
func (s *Session) View() View {
	v := View{
		Intervals: s.tree.AllIntervals(),
		Height:    s.tree.Height(),
		Size:      s.tree.Len(),
		Balancing: s.tree.Balancing(),
		Message:   s.message,
	}
	if s.result != nil {
		res := *s.result
		v.Result = &res
	}
	return v
}

// Insert validates and stores [low, high].
func (s *Session) Insert(low, high int64) error {
	i, err := interval.NewInterval(low, high)
	if err != nil {
		s.fail("Please enter valid start and end values: %s", s.pair(low, high))
		s.log.Debugf("rejected insert %d..%d: %v", low, high, err)
		return err
	}

	s.remember()
	if err := s.tree.Insert(i); err != nil {
		s.forget()
		return errors.Wrapf(err, "could not insert %s", i)
	}

	s.result = nil
	s.succeed("Interval %s inserted successfully!", s.format(i))
	s.log.Debugf("inserted %s, size %d", i, s.tree.Len())
	return nil
}

// InsertAll stores a batch of intervals as one undoable step. Every interval
// is validated first; if any is inverted nothing is stored.
func (s *Session) InsertAll(intervals []interval.Interval) error {
	for n, i := range intervals {
		if err := i.Validate(); err != nil {
			s.fail("Please enter valid start and end values: %s (entry %d)", s.format(i), n+1)
			return errors.Wrapf(err, "entry %d", n+1)
		}
	}

	s.remember()
	for _, i := range intervals {
		if err := s.tree.Insert(i); err != nil {
			return errors.Wrapf(err, "could not insert %s", i)
		}
	}

	s.result = nil
	s.succeed("Inserted %d intervals", len(intervals))
	s.log.Debugf("inserted batch of %d, size %d", len(intervals), s.tree.Len())
	return nil
}

// Delete removes one interval equal to [low, high] and reports whether
// there was one. A missing interval is not an error.
func (s *Session) Delete(low, high int64) bool {
	i := interval.Interval{Low: low, High: high}

	if !s.tree.Contains(i) {
		s.result = nil
		s.inform("Interval %s not found, nothing deleted", s.format(i))
		return false
	}

	s.remember()
	s.tree.Delete(i)

	s.result = nil
	s.succeed("Interval %s deleted successfully!", s.format(i))
	s.log.Debugf("deleted %s, size %d", i, s.tree.Len())
	return true
}

// Search looks for any stored interval overlapping [low, high].
func (s *Session) Search(low, high int64) (interval.Interval, bool, error) {
	q, err := interval.NewInterval(low, high)
	if err != nil {
		s.fail("Please enter valid search start and end values: %s", s.pair(low, high))
		return interval.Interval{}, false, err
	}

	res, found := s.tree.SearchOverlap(q)
	if !found {
		s.result = nil
		s.inform("No overlapping interval found")
		return interval.Interval{}, false, nil
	}

	s.result = &res
	s.succeed("Found overlapping interval: %s", s.format(res))
	return res, true, nil
}

// SearchAll returns every stored interval overlapping [low, high].
func (s *Session) SearchAll(low, high int64) ([]interval.Interval, error) {
	q, err := interval.NewInterval(low, high)
	if err != nil {
		s.fail("Please enter valid search start and end values: %s", s.pair(low, high))
		return nil, err
	}

	res := s.tree.FindAllOverlapping(q)
	s.result = nil
	if len(res) == 0 {
		s.inform("No overlapping interval found")
	} else {
		s.succeed("Found %d overlapping intervals", len(res))
	}
	return res, nil
}

// Reset empties the tree. It can be undone.
func (s *Session) Reset() {
	s.remember()
	s.rebuild(nil)
	s.result = nil
	s.inform("Tree cleared")
}

// Undo restores the tree to the state before the last mutation.
func (s *Session) Undo() error {
	if len(s.history) == 0 {
		s.fail("Nothing to undo")
		return ErrNothingToUndo
	}

	prev := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.rebuild(prev)

	s.result = nil
	s.succeed("Undone, %d intervals stored", s.tree.Len())
	return nil
}

// rebuild replaces the tree with a fresh one holding intervals.
func (s *Session) rebuild(intervals []interval.Interval) {
	t := interval.NewIntervalTree(interval.WithBalancing(s.cfg.Balancing))
	for _, i := range intervals {
		// Snapshots only ever hold intervals the tree accepted before.
		_ = t.Insert(i)
	}
	s.tree = t
}

func (s *Session) remember() {
	if s.cfg.HistoryDepth <= 0 {
		return
	}
	if len(s.history) == s.cfg.HistoryDepth {
		s.history = append(s.history[:0], s.history[1:]...)
	}
	s.history = append(s.history, s.tree.AllIntervals())
}

func (s *Session) forget() {
	if len(s.history) > 0 {
		s.history = s.history[:len(s.history)-1]
	}
}

func (s *Session) format(i interval.Interval) string {
	return s.pair(i.Low, i.High)
}

func (s *Session) pair(low, high int64) string {
	return fmt.Sprintf("[%s, %s]", endpoint.Format(low, s.cfg.IPEndpoints), endpoint.Format(high, s.cfg.IPEndpoints))
}

func (s *Session) succeed(format string, args ...any) {
	s.message = Message{Kind: Success, Text: fmt.Sprintf(format, args...)}
}

func (s *Session) inform(format string, args ...any) {
	s.message = Message{Kind: Info, Text: fmt.Sprintf(format, args...)}
}

func (s *Session) fail(format string, args ...any) {
	s.message = Message{Kind: Error, Text: fmt.Sprintf(format, args...)}
}
