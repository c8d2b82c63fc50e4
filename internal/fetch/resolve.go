package fetch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Geergon/yt-dlp-linkbot/internal/yt"
	"github.com/go-faster/errors"
	"github.com/samber/lo"
)

var (
	ErrNoFile    = errors.New("завантажений файл не знайдено")
	ErrAmbiguous = errors.New("у директорії кілька кандидатів, не зрозуміло який файл відправляти")
)

// resolve знаходить файли, які треба відправити. Екстрактор не завжди повідомляє
// реальний шлях: після перекодування або перейменування його вже немає на диску.
func resolve(dir string, res *yt.Result, maxAlbum int) ([]string, error) {
	if len(res.Entries) > 0 {
		return resolveAlbum(dir, res.Entries, maxAlbum)
	}
	return resolveSingle(dir, res)
}

func resolveAlbum(dir string, entries []yt.Entry, maxAlbum int) ([]string, error) {
	var files []string
	for _, e := range entries {
		if path, ok := expected(dir, e.Filepath, e.Title, e.Ext); ok && !lo.Contains(files, path) {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		// жоден очікуваний файл не знайшовся, беремо все, що є в директорії
		listed, err := mediaFiles(dir)
		if err != nil {
			return nil, err
		}
		files = listed
	}
	if len(files) == 0 {
		return nil, ErrNoFile
	}
	if len(files) > maxAlbum {
		files = files[:maxAlbum]
	}
	return files, nil
}

func resolveSingle(dir string, res *yt.Result) ([]string, error) {
	if path, ok := expected(dir, res.Filepath, res.Title, res.Ext); ok {
		return []string{path}, nil
	}
	listed, err := mediaFiles(dir)
	if err != nil {
		return nil, err
	}
	switch len(listed) {
	case 0:
		return nil, ErrNoFile
	case 1:
		return listed, nil
	default:
		names := lo.Map(listed, func(p string, _ int) string { return filepath.Base(p) })
		return nil, errors.Wrap(ErrAmbiguous, strings.Join(names, ", "))
	}
}

// expected перевіряє спочатку шлях, який повідомив екстрактор, потім ім'я title.ext.
func expected(dir, reported, title, ext string) (string, bool) {
	var candidates []string
	if reported != "" {
		candidates = append(candidates, reported)
	}
	if title != "" && ext != "" {
		candidates = append(candidates, filepath.Join(dir, title+"."+ext))
	}
	for _, c := range candidates {
		if inside(dir, c) && !yt.IsSidecar(c) && isFile(c) {
			return filepath.Clean(c), true
		}
	}
	return "", false
}

func mediaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "читання тимчасової директорії")
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if yt.IsSidecar(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func inside(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel)
}

func isFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}
