package cleanup

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"epc/archive"
	"epc/epub"
	"epc/misc"
	"epc/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("cleanup")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	// command line toggles override configured defaults only when present
	if cmd.IsSet("spans") {
		env.Cfg.Document.Spans.Enable = cmd.Bool("spans")
	}
	if cmd.IsSet("chapters") {
		env.Cfg.Document.Headings.Enable = cmd.Bool("chapters")
	}
	if cmd.IsSet("start") {
		start := int(cmd.Int("start"))
		if start < 1 {
			return fmt.Errorf("chapter numbering cannot start at %d", start)
		}
		env.Cfg.Document.Headings.Start = start
	}
	env.CurrentDoc = cmd.String("current")
	// without an explicit start the current document tells us where an
	// existing numbering sequence left off
	env.DetectStart = len(env.CurrentDoc) > 0 && !cmd.IsSet("start")
	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst),
		zap.Bool("spans", env.Cfg.Document.Spans.Enable), zap.Bool("chapters", env.Cfg.Document.Headings.Enable))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process handles the core cleanup logic independently of CLI framework. It
// determines the input type (directory, archive, or single file) and processes
// accordingly.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		arc, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if arc {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, tail, "", dst, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		book, err := isEpubFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if book && len(tail) == 0 {
			// we have book, it cannot have tail
			if err := processBook(ctx, head, filepath.Base(head), dst, log); err != nil {
				log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
			}
			break
		}
		return fmt.Errorf("input was not recognized as EPUB book (%s)", head)

	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding epub files and archives, then
// processes them in natural name order so running chapter numbers stay
// deterministic between runs.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) (err error) {
	var books, archives []string

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		arc, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if arc {
			archives = append(archives, path)
			return nil
		}

		book, err := isEpubFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !book {
			log.Debug("Skipping file, not recognized as book or archive", zap.String("file", path))
			return nil
		}
		books = append(books, path)
		return nil
	})
	if err != nil {
		return err
	}

	if len(books) == 0 && len(archives) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
		return nil
	}

	sort.Sort(natural.StringSlice(books))
	sort.Sort(natural.StringSlice(archives))

	for _, p := range books {
		src := strings.TrimPrefix(strings.TrimPrefix(p, dir), string(filepath.Separator))
		if err := processBook(ctx, p, src, dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", p), zap.Error(err))
		}
	}
	for _, p := range archives {
		if err := processArchive(ctx, p, "", filepath.Dir(strings.TrimPrefix(p, dir)), dst, log); err != nil {
			log.Error("Unable to process archive", zap.String("file", p), zap.Error(err))
		}
	}
	return nil
}

// processArchive walks all files inside archive, finds epub files under
// "pathIn" and processes them.
func processArchive(ctx context.Context, arcPath, pathIn, pathOut, dst string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", arcPath))
		}
	}()

	err = archive.Walk(arcPath, pathIn, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !strings.EqualFold(path.Ext(f.FileHeader.Name), ".epub") {
			log.Debug("Skipping file, not recognized as book", zap.String("archive", arc), zap.String("file", f.FileHeader.Name))
			return nil
		}

		count++

		cp := state.EnvFromContext(ctx).CodePage

		pathInArchive := f.FileHeader.Name
		if cp != nil && f.FileHeader.NonUTF8 {
			// forcing zip file name encoding
			if n, err := cp.NewDecoder().String(pathInArchive); err == nil {
				pathInArchive = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", pathInArchive), zap.Error(err))
			}
		}

		extracted, err := extractToTemp(f)
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer os.Remove(extracted)

		if err := processBook(ctx, extracted, filepath.Join(pathOut, pathInArchive), dst, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
		}
		return nil
	})
	return err
}

// extractToTemp copies a zip entry into a temporary file so it can be opened
// as a zip archive itself.
func extractToTemp(f *zip.File) (string, error) {
	r, err := f.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()

	tmp, err := os.CreateTemp("", misc.GetAppName()+"-*.epub")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, r); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// processBook processes single EPUB file. "bookPath" is the actual location
// on disk (possibly a temporary extraction). "src" is part of the source path
// (always including file name) relative to the original path, used for output
// naming. "dst" is the destination directory where the cleaned file should be
// written.
func processBook(ctx context.Context, bookPath, src, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Cleanup starting", zap.String("from", src))
	defer func(start time.Time) {
		// when multiple books are being processed we do not want to stop on one
		// bad document
		if r := recover(); r != nil {
			log.Error("Cleanup ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("cleanup panic: %v", r)
		} else {
			log.Info("Cleanup completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	book, err := epub.Open(bookPath)
	if err != nil {
		return fmt.Errorf("unable to open EPUB source (%s): %w", src, err)
	}
	defer book.Close()

	docs := book.Documents()
	current := currentDocIndex(docs, env.CurrentDoc)
	if env.CurrentDoc != "" && current < 0 {
		log.Warn("Requested current document not found in reading order", zap.String("document", env.CurrentDoc))
	}

	docCfg := &env.Cfg.Document
	spanDocs := toSet(docCfg.Spans.Scope.Select(docs, current))
	headingDocs := toSet(docCfg.Headings.Scope.Select(docs, current))

	counter := docCfg.Headings.Start
	if env.DetectStart && current >= 0 {
		if data, err := book.ReadFile(docs[current]); err == nil {
			if n, ok := DetectStartNumber(docs[current], data, docCfg.Headings.Prefix); ok {
				counter = n
				log.Debug("Detected chapter start number",
					zap.String("document", docs[current]), zap.Int("start", n))
			}
		}
	}
	opts := Options{
		HeadingOptions: HeadingOptions{
			Prefix:         docCfg.Headings.Prefix,
			Style:          docCfg.Headings.Style,
			After:          docCfg.Headings.After,
			InsertNonEmpty: docCfg.Headings.InsertNonEmpty,
		},
	}

	replace := make(map[string][]byte)
	for _, name := range docs {
		o := opts
		o.MergeSpans = docCfg.Spans.Enable && spanDocs[name]
		o.Heading = docCfg.Headings.Enable && headingDocs[name]
		if !o.MergeSpans && !o.Heading {
			continue
		}

		data, err := book.ReadFile(name)
		if err != nil {
			return fmt.Errorf("unable to read document (%s): %w", name, err)
		}

		out, newCounter, changed, err := ProcessDocument(data, counter, o)
		if err != nil {
			if errors.Is(err, ErrMalformedDocument) {
				log.Warn("Skipping malformed document", zap.String("document", name), zap.Error(err))
				continue
			}
			return fmt.Errorf("unable to process document (%s): %w", name, err)
		}
		counter = newCounter
		if changed {
			replace[name] = out
			log.Debug("Document modified", zap.String("document", name))
		}
	}
	log.Info("Documents processed",
		zap.Int("total", len(docs)), zap.Int("modified", len(replace)), zap.Int("chapters", counter-docCfg.Headings.Start))

	// Determine output file name and path based on input and configuration.
	outputName = buildOutputPath(book.Metadata(), src, dst, env)

	// Check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	workDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
	if err != nil {
		return fmt.Errorf("unable to create temporary directory: %w", err)
	}
	if env.Rpt != nil {
		// keep working files around for the debug report
		env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), filepath.Base(workDir)), workDir)
	} else {
		defer os.RemoveAll(workDir)
	}

	// rewrite into the working directory first so the source can be replaced
	// in place safely
	tmpName := filepath.Join(workDir, uuid.NewString()+outputExt)
	if err := epub.Rewrite(book.Path, tmpName, replace, docCfg.FixZip); err != nil {
		return fmt.Errorf("unable to rewrite container: %w", err)
	}
	book.Close()

	if err := copyFile(tmpName, outputName); err != nil {
		return err
	}

	// Store cleanup result for debugging
	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s", filepath.Base(outputName)), outputName)
	}
	return nil
}

func currentDocIndex(docs []string, current string) int {
	if current == "" {
		return -1
	}
	for i, name := range docs {
		if name == current || path.Base(name) == current {
			return i
		}
	}
	return -1
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

func copyFile(src, dst string) error {

	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destinationFile.Close()

	if _, err = io.Copy(destinationFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err = destinationFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}
