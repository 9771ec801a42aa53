package docmark

// markTableCells replaces the text of every markup-styled paragraph in the
// body tables with the configured processed marker. Paragraphs that already
// hold only the marker are left alone.
func (e *Engine) markTableCells(doc *Document, scanner *Scanner, report *Report) {
	logger := e.getLogger().WithField("pass", "tables")
	marker := e.config.ProcessedText

	for ti, table := range doc.Body().Tables() {
		for ri, row := range table.Rows() {
			for ci, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					text, ok := scanner.ParagraphInstruction(p)
					if !ok {
						continue
					}
					if text == marker && len(p.Runs()) == 1 {
						continue
					}
					inst := ClassifyCell(text)
					p.SetText(marker)
					report.CellsMarked++
					logger.Debug("marked cell %d/%d/%d (was %q)", ti, ri, ci, inst.Key)
				}
			}
		}
	}
}

