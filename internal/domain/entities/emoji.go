package entities

// EmojiChoices is the fixed list offered as category prefixes.
var EmojiChoices = []string{
	"🧡", "💛", "💚", "💙", "💜", "🤍", "😀", "😁", "😊", "😇",
	"🥰", "😍", "🤩", "😘", "😗", "☺️", "😚", "😙", "😋", "😛",
	"😜", "🤪", "😝", "🤑", "🤗", "☕", "🍸", "🍹", "🍺", "🥂",
	"🥤", "🧃", "🧉", "🧊", "👓", "🕶️", "🎸", "🎹", "📟", "🔋",
	"🖥️", "💿", "📀", "🎞️", "📽️", "🎬", "📺", "📸", "🌟", "🌀",
	"🌈", "🌂", "☂️", "☔", "⛱️", "⚡", "❄️", "⛄", "🔥", "💧", "🌊",
}
