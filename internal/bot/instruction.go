package bot

// InstructionText — статический текст справки. Принадлежит транспортному
// слою и передаётся движку при сборке.
const InstructionText = `Инструкция по использованию бота учёта расходов и доходов.

Основные команды и кнопки:

1. /start — запускает бота и показывает кнопку "Меню".
2. Кнопка "Меню" — открывает главное меню:
   - (добавить расход), + (добавить доход), Статистика, Категории,
   Экспорт, Удалить, Часовой пояс, Инструкция.
3. Кнопка "Назад" — отменяет текущее действие и возвращает в меню.

Функции:

Добавление расхода (-) или дохода (+):
1. Нажмите "-" или "+" в меню.
2. Выберите категорию из предложенных кнопок.
3. Введите сумму и описание в формате: <сумма> <описание>
   (например, 500 Кофе). Сумма должна быть положительным числом.

Статистика (Статистика, /stats или просто s):
Суммы расходов и доходов по категориям за день, неделю, месяц и год,
итоги и баланс. /stats full дополнительно разбивает неделю по дням и
год по месяцам и прикладывает график расходов по категориям.

Категории (Категории или /categories):
Список доступных категорий расходов и доходов. Категории
предустановлены, расширяются только через базу данных.

Экспорт (Экспорт или /export):
CSV-файл со всеми вашими записями. ID записи из файла нужен для
удаления по ID.

Удаление (Удалить или /delete):
"Удалить по ID" — введите /delete <id> (например, /delete 5).
"Обнулить статистику" — безвозвратно удаляет все ваши записи.

Часовой пояс (Часовой пояс или /settimezone):
Введите название зоны в формате Region/City (например, Europe/Moscow).
По умолчанию используется UTC.

Полезные советы:
- Всегда указывайте сумму и описание через пробел: 1000 Подарок.
- Кнопка "Назад" доступна на каждом шаге.
- При ошибке следуйте подсказке в ответном сообщении.`
