package sample

import (
	"github.com/mstoodle/jb2go/extension"
	"github.com/mstoodle/jb2go/kind"
)

// KindExtension roots sample.Extension under extension.KindExtension,
// the way every concrete Extension must.
var KindExtension = kind.Register("sample.Extension", extension.KindExtension)
