// Package qt implements the Qt module deployment engine: it determines
// which Qt subsystems the binaries inside an AppDir depend on and drives
// the per-module deployers that bundle the matching plugins, private
// libraries, QML imports and translations.
package qt

// Module describes one deployable Qt subsystem. Identity is by Name;
// the catalog below is the only place instances are created.
type Module struct {
	// Name is the canonical module identifier, e.g. "sql"
	Name string
	// LibraryFilePrefix is the shared library filename prefix used for
	// matching, e.g. "libQt5Sql"
	LibraryFilePrefix string
	// TranslationCatalog is the prefix of the module's .qm translation
	// files, empty for modules that ship no translations
	TranslationCatalog string
}

// Modules is the static catalog of known Qt 5 modules, in deployment order.
var Modules = []Module{
	{"3danimation", "libQt53DAnimation", ""},
	{"3dcore", "libQt53DCore", ""},
	{"3dextras", "libQt53DExtras", ""},
	{"3dinput", "libQt53DInput", ""},
	{"3dlogic", "libQt53DLogic", ""},
	{"3dquick", "libQt53DQuick", ""},
	{"3dquickextras", "libQt53DQuickExtras", ""},
	{"3dquickrender", "libQt53DQuickRender", ""},
	{"3drender", "libQt53DRender", ""},
	{"concurrent", "libQt5Concurrent", "qtbase"},
	{"core", "libQt5Core", "qtbase"},
	{"dbus", "libQt5DBus", ""},
	{"designer", "libQt5Designer", ""},
	{"designercomponents", "libQt5DesignerComponents", ""},
	{"gamepad", "libQt5Gamepad", ""},
	{"gui", "libQt5Gui", "qtbase"},
	{"help", "libQt5Help", "qt_help"},
	{"location", "libQt5Location", ""},
	{"multimedia", "libQt5Multimedia", "qtmultimedia"},
	{"multimediagsttools", "libQt5MultimediaGstTools", "qtmultimedia"},
	{"multimediaquick", "libQt5MultimediaQuick", "qtmultimedia"},
	{"multimediawidgets", "libQt5MultimediaWidgets", "qtmultimedia"},
	{"network", "libQt5Network", "qtbase"},
	{"nfc", "libQt5Nfc", ""},
	{"opengl", "libQt5OpenGL", ""},
	{"positioning", "libQt5Positioning", ""},
	{"printsupport", "libQt5PrintSupport", ""},
	{"qml", "libQt5Qml", "qtdeclarative"},
	{"quick", "libQt5Quick", ""},
	{"quickcontrols2", "libQt5QuickControls2", ""},
	{"quickparticles", "libQt5QuickParticles", ""},
	{"quickshapes", "libQt5QuickShapes", ""},
	{"quicktemplates2", "libQt5QuickTemplates2", ""},
	{"quicktest", "libQt5QuickTest", ""},
	{"quickwidgets", "libQt5QuickWidgets", ""},
	{"remoteobjects", "libQt5RemoteObjects", ""},
	{"script", "libQt5Script", "qtscript"},
	{"scripttools", "libQt5ScriptTools", ""},
	{"sensors", "libQt5Sensors", ""},
	{"serialbus", "libQt5SerialBus", ""},
	{"serialport", "libQt5SerialPort", "qtserialport"},
	{"sql", "libQt5Sql", "qtbase"},
	{"svg", "libQt5Svg", ""},
	{"test", "libQt5Test", "qtbase"},
	{"texttospeech", "libQt5TextToSpeech", ""},
	{"waylandclient", "libQt5WaylandClient", ""},
	{"waylandcompositor", "libQt5WaylandCompositor", ""},
	{"webchannel", "libQt5WebChannel", ""},
	{"webengine", "libQt5WebEngine", "qtwebengine"},
	{"webenginecore", "libQt5WebEngineCore", ""},
	{"webenginewidgets", "libQt5WebEngineWidgets", ""},
	{"websockets", "libQt5WebSockets", ""},
	{"webview", "libQt5WebView", ""},
	{"widgets", "libQt5Widgets", "qtbase"},
	{"x11extras", "libQt5X11Extras", ""},
	{"xcbqpa", "libQt5XcbQpa", ""},
	{"xml", "libQt5Xml", "qtbase"},
	{"xmlpatterns", "libQt5XmlPatterns", "qtxmlpatterns"},
}

// KnownModule returns true if name is the canonical name of a catalog entry
func KnownModule(name string) bool {
	for _, module := range Modules {
		if module.Name == name {
			return true
		}
	}
	return false
}
