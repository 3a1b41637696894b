package filesource

import (
	"errors"
	"path/filepath"
	"strings"

	"germplasm-accession-importer/utils"
)

var ErrLocationNotAllowed = errors.New("location not allowed")

/*
LocationPolicy 限制外部请求可以打开的位置：s3:// 地址总是允许，本地路径必须位于 Dirs 中的某个目录之下。
Dirs 为空时不允许任何本地路径。
*/
type LocationPolicy struct {
	Dirs []string
}

/*
Check 检查 location 是否允许打开
*/
func (p LocationPolicy) Check(location string) error {
	if _, _, ok := parseS3Location(location); ok {
		return nil
	}
	if p.Contains(location) {
		return nil
	}
	return utils.WrapErrorf(ErrLocationNotAllowed, "[%s] is outside of the allowed directories", location)
}

/*
Contains 判断本地路径 location 是否位于 Dirs 中的某个目录之下，符号链接解析后再比较
*/
func (p LocationPolicy) Contains(location string) bool {
	if location == "" || strings.Contains(location, "://") {
		return false
	}

	path, ok := resolvePath(location)
	if !ok {
		return false
	}

	for _, dir := range p.Dirs {
		if dir == "" {
			continue
		}
		root, ok := resolvePath(dir)
		if !ok {
			continue
		}

		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return true
	}
	return false
}

// resolvePath 返回绝对路径；路径存在时解析符号链接
func resolvePath(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// 文件不存在时只能按字面比较，打开时会失败
		dir, evalErr := filepath.EvalSymlinks(filepath.Dir(abs))
		if evalErr != nil {
			return abs, true
		}
		return filepath.Join(dir, filepath.Base(abs)), true
	}
	return resolved, true
}
