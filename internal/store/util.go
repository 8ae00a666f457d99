package store

import (
	"crypto/md5"
	"encoding/hex"
	"os"

	"github.com/quill-lang/quillc/internal/util"
)

func hashFile(filename string) Hash {
	contents, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return ""
	} else if err != nil {
		util.Die("%s: %s", filename, err)
	}
	sum := md5.Sum(contents)
	return Hash(hex.EncodeToString(sum[:]))
}
