package signature

// builtinRules returns the seed catalogue. The byte patterns are
// published magic numbers; the ordering is deliberate and load-bearing
// (first match wins), so new entries belong after the formats they
// could shadow.
func builtinRules() []Rule {
	return []Rule{
		// Images
		{"89504E47", "PNG", "Image", "Portable Network Graphics", []string{".png"}},
		{"FFD8FFE0", "JPEG", "Image", "JPEG Image (JFIF)", []string{".jpg", ".jpeg"}},
		{"FFD8FFE1", "JPEG", "Image", "JPEG Image (EXIF)", []string{".jpg", ".jpeg"}},
		{"FFD8FFDB", "JPEG", "Image", "JPEG Image", []string{".jpg", ".jpeg"}},
		{"47494638", "GIF", "Image", "Graphics Interchange Format", []string{".gif"}},
		{"424D", "BMP", "Image", "Bitmap Image", []string{".bmp"}},
		{"38425053", "PSD", "Image", "Adobe Photoshop Document", []string{".psd"}},
		{"49492A00", "TIFF", "Image", "Tagged Image File Format (LE)", []string{".tiff", ".tif"}},
		{"4D4D002A", "TIFF", "Image", "Tagged Image File Format (BE)", []string{".tiff", ".tif"}},
		{"00000100", "ICO", "Image", "Windows Icon", []string{".ico"}},
		{"00000200", "CUR", "Image", "Windows Cursor", []string{".cur"}},

		// Documents
		{"25504446", "PDF", "Document", "Portable Document Format", []string{".pdf"}},
		{"D0CF11E0A1B11AE1", "DOC/XLS/PPT", "Document", "Microsoft Office Legacy", []string{".doc", ".xls", ".ppt"}},
		{"504B0304", "ZIP/DOCX/XLSX", "Archive", "ZIP Archive or Office Open XML", []string{".zip", ".docx", ".xlsx", ".pptx", ".jar", ".apk"}},
		{"504B0506", "ZIP", "Archive", "ZIP Archive (empty)", []string{".zip"}},
		{"504B0708", "ZIP", "Archive", "ZIP Archive (spanned)", []string{".zip"}},
		{"7B5C727466", "RTF", "Document", "Rich Text Format", []string{".rtf"}},

		// Archives
		{"52617221", "RAR", "Archive", "RAR Archive", []string{".rar"}},
		{"377ABCAF271C", "7Z", "Archive", "7-Zip Archive", []string{".7z"}},
		{"1F8B", "GZIP", "Archive", "GZIP Compressed", []string{".gz", ".gzip"}},
		{"425A68", "BZ2", "Archive", "BZIP2 Compressed", []string{".bz2"}},
		{"FD377A585A00", "XZ", "Archive", "XZ Compressed", []string{".xz"}},
		{"504B", "ZIP", "Archive", "ZIP Archive", []string{".zip"}},
		{"1F9D", "Z", "Archive", "LZW Compressed", []string{".z"}},
		{"1FA0", "Z", "Archive", "LZH Compressed", []string{".z"}},

		// Audio
		{"494433", "MP3", "Audio", "MP3 Audio (ID3)", []string{".mp3"}},
		{"FFFB", "MP3", "Audio", "MP3 Audio", []string{".mp3"}},
		{"FFF3", "MP3", "Audio", "MP3 Audio", []string{".mp3"}},
		{"FFF2", "MP3", "Audio", "MP3 Audio", []string{".mp3"}},
		{"664C6143", "FLAC", "Audio", "Free Lossless Audio Codec", []string{".flac"}},
		{"4F676753", "OGG", "Audio", "OGG Vorbis", []string{".ogg"}},

		// Video
		{"1A45DFA3", "MKV/WEBM", "Video", "Matroska/WebM Video", []string{".mkv", ".webm"}},
		{"464C56", "FLV", "Video", "Flash Video", []string{".flv"}},
		{"000001BA", "MPEG", "Video", "MPEG Video", []string{".mpg", ".mpeg"}},
		{"000001B3", "MPEG", "Video", "MPEG Video", []string{".mpg", ".mpeg"}},
		{"30264032", "WMV", "Video", "Windows Media Video", []string{".wmv"}},

		// Executables
		{"4D5A", "EXE/DLL", "Executable", "Windows Executable", []string{".exe", ".dll", ".sys"}},
		{"7F454C46", "ELF", "Executable", "Linux Executable", nil},
		{"CAFEBABE", "CLASS/MACH-O", "Executable", "Java Class or macOS", []string{".class"}},
		{"FEEDFACE", "MACH-O", "Executable", "macOS Executable (32-bit)", nil},
		{"FEEDFACF", "MACH-O", "Executable", "macOS Executable (64-bit)", nil},
		{"DEX0A", "DEX", "Executable", "Android Dalvik Executable", []string{".dex"}},

		// Database
		{"53514C697465", "SQLITE", "Database", "SQLite Database", []string{".db", ".sqlite", ".sqlite3"}},

		// Web/Code
		{"3C3F786D6C", "XML", "Data", "XML Document", []string{".xml"}},
		{"3C21444F43545950", "HTML", "Web", "HTML Document", []string{".html", ".htm"}},
		{"3C68746D6C", "HTML", "Web", "HTML Document", []string{".html", ".htm"}},
		{"7B", "JSON", "Data", "JSON Data (probable)", []string{".json"}},
		{"EFBBBF", "UTF8-BOM", "Text", "UTF-8 with BOM", []string{".txt"}},
		{"FFFE", "UTF16-LE", "Text", "UTF-16 Little Endian", []string{".txt"}},
		{"FEFF", "UTF16-BE", "Text", "UTF-16 Big Endian", []string{".txt"}},

		// Fonts
		{"00010000", "TTF", "Font", "TrueType Font", []string{".ttf"}},
		{"4F54544F", "OTF", "Font", "OpenType Font", []string{".otf"}},
		{"774F4646", "WOFF", "Font", "Web Open Font Format", []string{".woff"}},
		{"774F4632", "WOFF2", "Font", "Web Open Font Format 2", []string{".woff2"}},

		// Other
		{"25215053", "PS", "Document", "PostScript", []string{".ps", ".eps"}},
		{"4344303031", "ISO", "Disk", "ISO Disk Image", []string{".iso"}},
	}
}
