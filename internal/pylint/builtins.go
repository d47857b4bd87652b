package pylint

// pythonBuiltins covers the names available in every Python scope without
// an import. True/False/None are keywords at the grammar level and never
// reach name resolution.
var pythonBuiltins = map[string]struct{}{}

func init() {
	names := []string{
		// functions
		"abs", "aiter", "anext", "all", "any", "ascii", "bin", "breakpoint",
		"callable", "chr", "classmethod", "compile", "delattr", "dir",
		"divmod", "enumerate", "eval", "exec", "filter", "format", "getattr",
		"globals", "hasattr", "hash", "help", "hex", "id", "input",
		"isinstance", "issubclass", "iter", "len", "locals", "map", "max",
		"min", "next", "oct", "open", "ord", "pow", "print", "repr",
		"reversed", "round", "setattr", "sorted", "staticmethod", "sum",
		"vars", "zip", "__import__",
		// types
		"bool", "bytearray", "bytes", "complex", "dict", "float", "frozenset",
		"int", "list", "memoryview", "object", "property", "range", "set",
		"slice", "str", "super", "tuple", "type",
		// exceptions and warnings
		"ArithmeticError", "AssertionError", "AttributeError", "BaseException",
		"BaseExceptionGroup", "BlockingIOError", "BrokenPipeError",
		"BufferError", "BytesWarning", "ChildProcessError",
		"ConnectionAbortedError", "ConnectionError", "ConnectionRefusedError",
		"ConnectionResetError", "DeprecationWarning", "EOFError",
		"EncodingWarning", "EnvironmentError", "Exception", "ExceptionGroup",
		"FileExistsError", "FileNotFoundError", "FloatingPointError",
		"FutureWarning", "GeneratorExit", "IOError", "ImportError",
		"ImportWarning", "IndentationError", "IndexError", "InterruptedError",
		"IsADirectoryError", "KeyError", "KeyboardInterrupt", "LookupError",
		"MemoryError", "ModuleNotFoundError", "NameError",
		"NotADirectoryError", "NotImplementedError", "OSError",
		"OverflowError", "PendingDeprecationWarning", "PermissionError",
		"ProcessLookupError", "RecursionError", "ReferenceError",
		"ResourceWarning", "RuntimeError", "RuntimeWarning", "StopAsyncIteration",
		"StopIteration", "SyntaxError", "SyntaxWarning", "SystemError",
		"SystemExit", "TabError", "TimeoutError", "TypeError",
		"UnboundLocalError", "UnicodeDecodeError", "UnicodeEncodeError",
		"UnicodeError", "UnicodeTranslateError", "UnicodeWarning",
		"UserWarning", "ValueError", "Warning", "ZeroDivisionError",
		// constants and dunders
		"Ellipsis", "NotImplemented", "copyright", "credits", "license",
		"quit", "exit", "__name__", "__file__", "__doc__", "__package__",
		"__spec__", "__loader__", "__builtins__", "__debug__", "__build_class__",
	}
	for _, n := range names {
		pythonBuiltins[n] = struct{}{}
	}
}

func isBuiltin(name string) bool {
	_, ok := pythonBuiltins[name]
	return ok
}
