package compute

import (
	"strings"

	"github.com/huandu/go-clone"
	"github.com/xlab/treeprint"

	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

// SortDescription is the key a set of batches is ordered by.
type SortDescription struct {
	Key     *common.Schema
	Reverse bool
	// Unique means no two rows share a key after ordering.
	Unique bool
}

func NewSortDescription(key *common.Schema) *SortDescription {
	util.AssertF(key != nil && key.NumFields() > 0, "empty sort key")
	return &SortDescription{Key: key}
}

func (desc *SortDescription) Clone() *SortDescription {
	if desc == nil {
		return nil
	}
	return clone.Clone(desc).(*SortDescription)
}

// Inverted returns a copy ordered the other way.
func (desc *SortDescription) Inverted() *SortDescription {
	ret := desc.Clone()
	ret.Reverse = !ret.Reverse
	return ret
}

// direction is 1 for ascending keys and -1 for descending.
func (desc *SortDescription) direction() int {
	if desc.Reverse {
		return -1
	}
	return 1
}

func (desc *SortDescription) String() string {
	sb := strings.Builder{}
	sb.WriteString(strings.Join(desc.Key.Names(), ","))
	if desc.Reverse {
		sb.WriteString(" desc")
	}
	if desc.Unique {
		sb.WriteString(" unique")
	}
	return sb.String()
}

func (desc *SortDescription) Print(tree treeprint.Tree) {
	if desc == nil {
		return
	}
	desc.Key.Print(tree.AddMetaBranch("key", ""))
	tree.AddMetaNode("reverse", desc.Reverse)
	tree.AddMetaNode("unique", desc.Unique)
}
