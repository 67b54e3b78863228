package console

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
)

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// openFileOrURL opens a local file, or downloads a URL to a temp file and
// opens that. The returned cleanup closes the file and removes any download.
func openFileOrURL(ctx context.Context, fileOrURL string) (f *os.File, cleanup func(), err error) {
	file := fileOrURL
	var tmp string

	_, err = os.Stat(fileOrURL)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, nil, errors.Wrapf(err, "got unexpected error when trying to stat file (or URL): %s", fileOrURL)
		}
		if !isURL(fileOrURL) {
			return nil, nil, errors.Wrapf(err, "no such file: %s", fileOrURL)
		}

		// Treat this as a URL. Download its contents to a local temp location.
		tmp, err = downloadURLToTempFile(ctx, fileOrURL)
		if err != nil {
			return nil, nil, err
		}
		file = tmp
	}

	f, err = os.Open(file)
	if err != nil {
		if tmp != "" {
			os.Remove(tmp)
		}
		return nil, nil, errors.Wrapf(err, "failed to open file: %s", file)
	}

	return f, func() {
		f.Close()
		if tmp != "" {
			os.Remove(tmp)
		}
	}, nil
}

func readCSVFileOrURL(ctx context.Context, fileOrURL string, forEachRecord func(recordNumber int, record []string) error) error {
	f, cleanup, err := openFileOrURL(ctx, fileOrURL)
	if err != nil {
		return err
	}
	defer cleanup()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	var recordNumber int

	for {
		rec, err := cr.Read()
		if err != nil {
			if err != io.EOF {
				return errors.Wrapf(err, "failed to read CSV record from file: %s", fileOrURL)
			}
			// We're done.
			break
		}

		recordNumber++
		err = forEachRecord(recordNumber, rec)
		if err != nil {
			return errors.Wrapf(err, "failed to process CSV record %d", recordNumber)
		}
	}

	return nil
}

func readFileOrURL(ctx context.Context, fileOrURL string, forEachLine func(lineNumber int, line string) error) error {
	f, cleanup, err := openFileOrURL(ctx, fileOrURL)
	if err != nil {
		return err
	}
	defer cleanup()

	return readLines(f, fileOrURL, forEachLine)
}

func readLines(r io.Reader, name string, forEachLine func(lineNumber int, line string) error) error {
	scanner := bufio.NewScanner(r)
	var lineNumber int

	for scanner.Scan() {
		lineNumber++
		if err := forEachLine(lineNumber, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "failed to read line from: %s", name)
	}

	return nil
}

func downloadURLToTempFile(ctx context.Context, url string) (filename string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrapf(err, "invalid URL: %s", url)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "failed to download data from URL: %s", url)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return "", errors.Errorf("failed to download data from URL: %s - got status code: %d", url, res.StatusCode)
	}

	f, err := os.CreateTemp(os.TempDir(), "itree-download")
	if err != nil {
		return "", errors.Wrapf(err, "failed to create a temp file to store data in")
	}
	defer f.Close()

	if _, err = io.Copy(f, res.Body); err != nil {
		os.Remove(f.Name())
		return "", errors.Wrapf(err, "failed to read data from HTTP response from URL: %s", url)
	}

	return f.Name(), nil
}
