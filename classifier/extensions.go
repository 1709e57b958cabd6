package classifier

// Extension-based fallbacks for formats with no reliable magic number.
// Consulted only when signature matching comes up empty.
type fallback struct {
	kind        string
	category    string
	description string
}

var extensionFallbacks = map[string]fallback{
	".txt":  {TypeText, "Text", "Plain text file"},
	".log":  {TypeText, "Text", "Plain text file"},
	".md":   {TypeText, "Text", "Plain text file"},
	".csv":  {TypeText, "Text", "Plain text file"},
	".cfg":  {TypeText, "Text", "Plain text file"},
	".ini":  {TypeText, "Text", "Plain text file"},
	".cpp":  {"Source Code", "Code", "C/C++ source file"},
	".c":    {"Source Code", "Code", "C/C++ source file"},
	".h":    {"Source Code", "Code", "C/C++ source file"},
	".hpp":  {"Source Code", "Code", "C/C++ source file"},
	".py":   {"Python", "Code", "Python script"},
	".js":   {"JavaScript", "Code", "JavaScript file"},
	".java": {"Java", "Code", "Java source file"},
	".html": {"HTML", "Web", "HTML document"},
	".htm":  {"HTML", "Web", "HTML document"},
	".css":  {"CSS", "Web", "Cascading Style Sheet"},
}

// expectedExtensions maps a lowercased type name to the extensions
// considered legitimate for it, most canonical first. Types absent
// from this map never raise a mismatch, so adding a format to the
// signature catalogue does not by itself start flagging its files.
var expectedExtensions = map[string][]string{
	"png":           {".png"},
	"jpeg":          {".jpg", ".jpeg"},
	"gif":           {".gif"},
	"bmp":           {".bmp"},
	"pdf":           {".pdf"},
	"zip/docx/xlsx": {".zip", ".docx", ".xlsx", ".pptx", ".odt", ".jar", ".apk"},
	"zip":           {".zip", ".jar", ".apk"},
	"rar":           {".rar"},
	"7z":            {".7z"},
	"mp3":           {".mp3"},
	"mp4":           {".mp4", ".m4v"},
	"mkv/webm":      {".mkv", ".webm"},
	"exe/dll":       {".exe", ".dll", ".sys"},
	"doc/xls/ppt":   {".doc", ".xls", ".ppt"},
}
