package viewer

// FileType is a filter offered by a file picker.
type FileType struct {
	Name    string
	Pattern string
}

// PDFFileTypes restricts the picker to PDFs, with an escape hatch.
var PDFFileTypes = []FileType{
	{Name: "PDF Files", Pattern: "*.pdf"},
	{Name: "All Files", Pattern: "*.*"},
}

// UI is the dialog capability a front end provides to commands.
type UI interface {
	ShowError(title, message string)
	ShowInfo(title, message string)

	// AskYesNo asks a confirmation question and reports the answer.
	AskYesNo(title, message string) bool

	// AskOpenFile asks for a file to open. ok is false if the user cancelled.
	AskOpenFile(title string, types []FileType) (path string, ok bool)
}

// AboutText is shown by the Help → About command. It is markdown.
const AboutText = `# PDF Viewer

A minimal PDF viewer. Open a document from the **File** menu; every page is
rendered into a scrollable strip with a thumbnail column beside it.

Use *Next* and *Previous* to step through pages.`
