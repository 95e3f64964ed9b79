package assembler

import "github.com/rv32tools/rv32asm/parser"

// resolveLabels implements §4.5: walk items tracking position, binding each
// Label to its byte offset and removing it from the returned stream. A label
// name defined more than once simply rebinds to the later position --
// last-definition-wins, matching the ground-truth assembler this one is
// based on, which never treats redefinition as an error. Every bound label
// is also recorded in symtab, if given, so the final snapshot can report
// unused labels; compress.go's shiftLabelsAfter keeps these positions in
// sync as later passes shrink items, so symtab entries are overwritten with
// final positions once the pipeline settles.
func resolveLabels(items []parser.Item, symtab *parser.SymbolTable) ([]parser.Item, map[string]int64, *parser.ErrorList) {
	errs := &parser.ErrorList{}
	labels := make(map[string]int64)
	out := make([]parser.Item, 0, len(items))
	var position int64

	for _, item := range items {
		l, ok := item.(*parser.LabelItem)
		if !ok {
			out = append(out, item)
			position += item.Size(position)
			continue
		}

		labels[l.Name] = position
		if symtab != nil {
			symtab.Define(l.Name, parser.SymbolLabel, position, l.Line.Pos())
		}
	}

	return out, labels, errs
}
