package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/kingfer30/image-describe/common/config"
	"github.com/kingfer30/image-describe/common/image"
	"github.com/kingfer30/image-describe/uploader"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

var (
	endpoint   = flag.String("endpoint", "http://localhost:3000/api/describe-image", "Describe endpoint URL")
	promptFile = flag.String("prompt-file", "", "File holding the prompt template, defaults to the built-in template")
	parallel   = flag.Int("parallel", 1, "Number of images uploaded at once")
	quiet      = flag.Bool("quiet", false, "Do not draw upload progress")
	timeout    = flag.Duration("timeout", 0, "Per request timeout, 0 means none")
)

// terminal prints presenter output prefixed by the file name.
// Lines from concurrent uploads are serialized through mu.
type terminal struct {
	name string
	mu   *sync.Mutex
}

func (t *terminal) ShowPreview(dataURL string) {
	if dataURL == "" {
		return
	}
	t.println(os.Stdout, fmt.Sprintf("preview ready (%s)", dataURLSize(dataURL)))
}

func (t *terminal) ShowStatus(text string) {
	if text == "" {
		t.println(os.Stdout, "cleared")
		return
	}
	t.println(os.Stdout, text)
}

func (t *terminal) ShowError(text string) { t.println(os.Stderr, text) }

func (t *terminal) ShowPrompt(text string) {
	if text != "" {
		t.println(os.Stdout, "prompt: "+firstLine(text))
	}
}

func (t *terminal) println(w io.Writer, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(w, "[%s] %s\n", t.name, text)
}

func dataURLSize(dataURL string) string {
	contentType, data, err := image.ParseDataURL(dataURL)
	if err != nil {
		return "unreadable"
	}
	return fmt.Sprintf("%s, %d bytes", contentType, len(data))
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i] + " ..."
		}
	}
	return s
}

func readFile(path string) (*uploader.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &uploader.File{
		Name:        filepath.Base(path),
		ContentType: image.DetectContentType(data),
		Data:        data,
	}, nil
}

func progressWrapper(name string) func(io.Reader, int64) io.Reader {
	return func(body io.Reader, size int64) io.Reader {
		bar := progressbar.NewOptions64(
			size,
			progressbar.OptionSetDescription("Uploading "+name),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		reader := progressbar.NewReader(body, bar)
		return &reader
	}
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] image...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	prompt := config.DefaultPromptTemplate
	if *promptFile != "" {
		var err error
		if prompt, err = config.LoadPromptTemplate(*promptFile); err != nil {
			fmt.Fprintf(os.Stderr, "prompt file: %s\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*parallel, 1))
	failed := make([]bool, flag.NArg())
	for i, path := range flag.Args() {
		g.Go(func() error {
			name := path
			if name == "" {
				name = "-"
			}
			presenter := &terminal{name: name, mu: &mu}
			opts := uploader.Options{Endpoint: *endpoint, PromptTemplate: prompt}
			if !*quiet && *parallel <= 1 {
				opts.WrapBody = progressWrapper(filepath.Base(name))
			}

			var file *uploader.File
			if path != "" {
				var err error
				if file, err = readFile(path); err != nil {
					presenter.ShowError(err.Error())
					failed[i] = true
					return nil
				}
			}

			reqCtx := ctx
			if *timeout > 0 {
				var cancel context.CancelFunc
				reqCtx, cancel = context.WithTimeout(ctx, *timeout)
				defer cancel()
			}
			if _, err := uploader.New(opts, presenter).Select(reqCtx, file); err != nil {
				failed[i] = true
			}
			// one failed upload does not stop the others
			return nil
		})
	}
	_ = g.Wait()

	for _, f := range failed {
		if f {
			os.Exit(1)
		}
	}
}
