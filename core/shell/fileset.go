package shell

import (
	"os"
)

// FileSet owns the descriptors the shell opens while dispatching one line.
// Everything added is closed by Close, which is safe to call on every exit
// path and more than once.
type FileSet struct {
	files []*os.File
}

// Add takes ownership of f.
func (fs *FileSet) Add(f *os.File) *os.File {
	fs.files = append(fs.files, f)
	return f
}

// Open opens a file and takes ownership of it.
func (fs *FileSet) Open(name string, flag int, perm os.FileMode) (*os.File, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return fs.Add(f), nil
}

// Pipes creates n pipes. On failure the pipes created so far stay in the set.
func (fs *FileSet) Pipes(n int) (*PipeSet, error) {
	ps := &PipeSet{}
	for i := 0; i < n; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			return nil, &ResourceError{Op: "pipe", Err: err}
		}
		ps.readers = append(ps.readers, fs.Add(r))
		ps.writers = append(ps.writers, fs.Add(w))
	}
	return ps, nil
}

// Len returns the number of descriptors still owned.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Close closes every owned descriptor and returns the last error.
func (fs *FileSet) Close() error {
	var lastErr error
	for _, f := range fs.files {
		if err := f.Close(); err != nil {
			lastErr = err
		}
	}
	fs.files = nil

	return lastErr
}

// PipeSet holds the N-1 pipes joining an N stage pipeline. Pipe i carries
// data from one stage to the next; its ends are owned by the FileSet that
// created it.
type PipeSet struct {
	readers []*os.File
	writers []*os.File
}

// Len returns the number of pipes.
func (ps *PipeSet) Len() int {
	return len(ps.readers)
}

// Reader returns the read end of pipe i.
func (ps *PipeSet) Reader(i int) *os.File {
	return ps.readers[i]
}

// Writer returns the write end of pipe i.
func (ps *PipeSet) Writer(i int) *os.File {
	return ps.writers[i]
}
